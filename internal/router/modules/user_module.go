package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// RateLimits are requests per Window per client IP.
type RateLimits struct {
	Register    int
	Login       int
	Window      time.Duration
	SkipPrivate bool
}

func (l RateLimits) allow() middleware.AllowFunc {
	if l.SkipPrivate {
		return middleware.AllowPrivateIP()
	}
	return nil
}

// UserModule wires registration and session routes.
// Public: POST /register, POST /api/login
// Protected: GET /api/me, POST /api/logout
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   redis.Cmdable
	Limits  RateLimits
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb redis.Cmdable, limits RateLimits) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb, Limits: limits}
}

func (m *UserModule) Register(root, api *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, m.Limits.Register, m.Limits.Window, middleware.KeyByIPAndPath(), m.Limits.allow())
	loginLimiter := middleware.RateLimit(m.Redis, m.Limits.Login, m.Limits.Window, middleware.KeyByIPAndPath(), m.Limits.allow())

	root.POST("/register", registerLimiter, m.Handler.Register)
	api.POST("/login", loginLimiter, m.Handler.Login)

	auth := api.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/logout", m.Handler.Logout)
	}
}
