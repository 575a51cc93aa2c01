package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

type OfferService interface {
	List(ctx context.Context, q application.OfferQuery) (*application.Page[*entity.Offer], error)
	Get(ctx context.Context, id int64) (*entity.Offer, error)
	Create(ctx context.Context, in application.OfferInput) (*entity.Offer, error)
	Replace(ctx context.Context, id int64, in application.OfferInput) (*entity.Offer, error)
	Patch(ctx context.Context, id int64, in application.OfferPatch) (*entity.Offer, error)
	Delete(ctx context.Context, id int64) error
}

type OfferHandler struct {
	Svc    OfferService
	Logger *logrus.Logger
}

func NewOfferHandler(svc OfferService, logger *logrus.Logger) *OfferHandler {
	return &OfferHandler{Svc: svc, Logger: logger}
}

func (h *OfferHandler) List(c *gin.Context) {
	q, err := parseOfferQuery(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferReads(page.Items), "offers",
		response.PageMeta{Total: page.Total, Page: page.Page, ItemsPerPage: page.ItemsPerPage})
}

func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	o, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferRead(o), "offer", nil)
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req OfferWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/offers/%d", o.ID))
	response.Success(c, http.StatusCreated, toOfferRead(o), "offer created", nil)
}

func (h *OfferHandler) Replace(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	var req OfferWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.Svc.Replace(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferRead(o), "offer updated", nil)
}

func (h *OfferHandler) Patch(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	var req OfferPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.patch()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	o, err := h.Svc.Patch(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferRead(o), "offer updated", nil)
}

// Delete removes the offer; its product, if any, simply loses it.
func (h *OfferHandler) Delete(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *OfferHandler) offerID(c *gin.Context) (int64, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error[any](c, http.StatusNotFound, "offer not found", nil)
	}
	return id, ok
}
