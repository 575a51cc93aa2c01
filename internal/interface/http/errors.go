package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

// writeError maps the application error taxonomy onto HTTP. Persistence
// failures are logged with their cause and answered with a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{verr.Field: verr.Message})
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrUnavailable):
		helpers.LogWarn(logger, "collaborator unavailable", err, logrus.Fields{"request_id": c.GetString("request_id"), "path": c.FullPath()})
		response.Error[any](c, http.StatusServiceUnavailable, "service unavailable", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{"request_id": c.GetString("request_id"), "path": c.FullPath()})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
