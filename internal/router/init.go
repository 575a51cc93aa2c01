package router

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/container"
	pginfra "github.com/oksasatya/go-ddd-catalog/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/router/modules"
)

type CatalogModuleDeps struct {
	Products *application.ProductService
	Offers   *application.OfferService
}

func buildUserHandler() *handlers.UserHandler {
	cfg := container.GetConfig()
	service := application.NewUserService(
		pginfra.NewUserRepository(container.GetPGPool()),
		container.GetHasher(),
		container.GetJWT(),
		container.GetEvents(),
		container.GetLogger(),
	)
	return handlers.NewUserHandler(service, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
}

func buildCatalogDeps() CatalogModuleDeps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	products := pginfra.NewProductRepository(pool)
	offers := pginfra.NewOfferRepository(pool)
	cache := application.NewProductCache(container.GetCache(), cfg.ProductCacheTTL, logger)
	index := container.GetProductIndex()

	productSvc := application.NewProductService(products, offers, cache, index, container.GetImageStore(), logger)
	if cfg.MaxUploadBytes > 0 {
		productSvc.MaxUploadBytes = cfg.MaxUploadBytes
	}
	return CatalogModuleDeps{
		Products: productSvc,
		Offers:   application.NewOfferService(offers, products, cache, index, logger),
	}
}

func healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error { return container.GetPGPool().Ping(ctx) },
	}
	if rdb := container.GetCache(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetCache()
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	r.Add(modules.NewUserModule(buildUserHandler(), container.GetJWT(), rdb, modules.RateLimits{
		Register:    cfg.RateLimitRegister,
		Login:       cfg.RateLimitLogin,
		Window:      window,
		SkipPrivate: cfg.RateLimitSkipPrivate,
	}))

	catalog := buildCatalogDeps()
	r.Add(modules.NewCatalogModule(
		handlers.NewProductHandler(catalog.Products, container.GetLogger()),
		handlers.NewOfferHandler(catalog.Offers, container.GetLogger()),
		container.GetJWT(),
		cfg.CatalogWriteAuth,
	))

	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(healthChecks()), rdb, cfg.DebugMetricsEnabled))
}
