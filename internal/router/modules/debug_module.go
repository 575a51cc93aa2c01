package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
)

type DebugModule struct {
	Health  *handlers.HealthHandler
	Redis   redis.Cmdable
	Metrics bool
}

func NewDebugModule(health *handlers.HealthHandler, rdb redis.Cmdable, metrics bool) *DebugModule {
	return &DebugModule{Health: health, Redis: rdb, Metrics: metrics}
}

func (m *DebugModule) Register(_, api *gin.RouterGroup) {
	api.GET("/health", m.Health.Health)
	if m.Metrics {
		// Public metrics endpoint (expvar), rate-limited per IP
		rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)
		api.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
