package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-catalog/config"
	"github.com/oksasatya/go-ddd-catalog/internal/application"
	pginfra "github.com/oksasatya/go-ddd-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

type demoProduct struct {
	name, description, url string
	offers                 []application.OfferInput
}

var demoCatalog = []demoProduct{
	{
		name:        "Trail Runner 3",
		description: "Lightweight trail running shoe with a rock plate.",
		url:         "https://shop.example.com/p/trail-runner-3",
		offers: []application.OfferInput{
			{URL: "https://shop.example.com/o/trail-runner-3-eu", Price: "119.90", PriceCurrency: "EUR"},
			{URL: "https://shop.example.com/o/trail-runner-3-us", Price: "129.00", PriceCurrency: "USD"},
		},
	},
	{
		name:        "Summit Shell Jacket",
		description: "Waterproof 3-layer shell for alpine days.",
		url:         "https://shop.example.com/p/summit-shell",
		offers: []application.OfferInput{
			{URL: "https://shop.example.com/o/summit-shell-usd", Price: "349.00", PriceCurrency: "USD"},
		},
	},
	{
		name:        "Camp Mug",
		description: "Insulated steel mug, 350 ml.",
		url:         "https://shop.example.com/p/camp-mug",
		offers: []application.OfferInput{
			{URL: "https://shop.example.com/o/camp-mug-btc", Price: "0.00031", PriceCurrency: "BTC"},
		},
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolOptions{
		DSN:             cfg.PostgresDSN(),
		AppName:         cfg.AppName + "-seed",
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	hasher, err := helpers.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}

	users := application.NewUserService(pginfra.NewUserRepository(pool), hasher, nil, nil, logger)
	email, password := "demo@example.com", "password123"
	u, err := users.Register(ctx, email, password)
	switch {
	case errors.Is(err, application.ErrConflict):
		fmt.Printf("user %s already exists\n", email)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)
	}

	var index application.ProductIndex
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		x := helpers.NewESProductIndex(es, cfg.ESProductsIndex)
		if err := x.EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; skipping index")
		} else {
			index = x
		}
	}

	productRepo := pginfra.NewProductRepository(pool)
	offerRepo := pginfra.NewOfferRepository(pool)
	cache := application.NewProductCache(rdb, cfg.ProductCacheTTL, logger)
	products := application.NewProductService(productRepo, offerRepo, cache, index, nil, logger)
	offers := application.NewOfferService(offerRepo, productRepo, cache, index, logger)

	existing, err := products.List(ctx, application.ProductQuery{ItemsPerPage: 1})
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}
	if existing.Total > 0 {
		fmt.Printf("catalog already has %d products; skipping\n", existing.Total)
	} else {
		for _, d := range demoCatalog {
			ids := make([]int64, 0, len(d.offers))
			for _, in := range d.offers {
				o, err := offers.Create(ctx, in)
				if err != nil {
					log.Fatalf("failed to seed offer %s: %v", in.URL, err)
				}
				ids = append(ids, o.ID)
			}
			p, err := products.Create(ctx, application.ProductInput{Name: d.name, Description: d.description, URL: d.url, OfferIDs: ids})
			if err != nil {
				log.Fatalf("failed to seed product %s: %v", d.name, err)
			}
			fmt.Printf("seeded product: id=%d name=%q offers=%d\n", p.ID, p.Name, len(p.Offers))
		}
	}

	if index != nil {
		n, err := products.Reindex(ctx)
		if err != nil {
			log.Fatalf("reindex failed after %d products: %v", n, err)
		}
		fmt.Printf("indexed %d products\n", n)
	}
}
