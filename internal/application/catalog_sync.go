package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// ProductCache is a read-through JSON cache of single products. A nil
// Redis client disables it.
type ProductCache struct {
	Redis  redis.Cmdable
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewProductCache(rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *ProductCache {
	if c, ok := rdb.(*redis.Client); ok && c == nil {
		rdb = nil
	}
	return &ProductCache{Redis: rdb, TTL: ttl, Logger: logger}
}

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

func (c *ProductCache) enabled() bool {
	return c != nil && c.Redis != nil && c.TTL > 0
}

func (c *ProductCache) get(ctx context.Context, id int64) (*entity.Product, bool) {
	if !c.enabled() {
		return nil, false
	}
	var p entity.Product
	ok, err := helpers.RedisGetJSON(ctx, c.Redis, productKey(id), &p)
	if err != nil {
		c.warn(err, "product cache read failed", id)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) put(ctx context.Context, p *entity.Product) {
	if !c.enabled() {
		return
	}
	if err := helpers.RedisSetJSON(ctx, c.Redis, productKey(p.ID), p, c.TTL); err != nil {
		c.warn(err, "product cache write failed", p.ID)
	}
}

func (c *ProductCache) invalidate(ctx context.Context, ids ...int64) {
	if !c.enabled() || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := helpers.RedisDel(ctx, c.Redis, keys...); err != nil {
		c.warn(err, "product cache invalidation failed", ids[0])
	}
}

func (c *ProductCache) warn(err error, msg string, id int64) {
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("product_id", id).Warn(msg)
	}
}

// catalogSync refreshes the derived views of products (cache and search
// index) after a committed write. Failures are logged, never returned.
type catalogSync struct {
	products repo.ProductRepository
	cache    *ProductCache
	index    ProductIndex
	logger   *logrus.Logger
}

// touched is called with every product whose row or offers changed.
func (s *catalogSync) touched(ctx context.Context, ids ...int64) {
	ids = compactIDs(ids)
	s.cache.invalidate(ctx, ids...)
	if s.index == nil {
		return
	}
	for _, id := range ids {
		p, err := s.products.GetByID(ctx, id)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			err = s.index.Delete(ctx, id)
		case err == nil:
			err = s.index.Index(ctx, toDocument(p))
		}
		if err != nil && s.logger != nil {
			s.logger.WithError(err).WithField("product_id", id).Warn("product index sync failed")
		}
	}
}

func toDocument(p *entity.Product) helpers.ProductDocument {
	doc := helpers.ProductDocument{ID: p.ID, Name: p.Name, Description: p.Description, URL: p.URL}
	for _, o := range p.Offers {
		doc.Prices = append(doc.Prices, o.Price)
	}
	return doc
}

// compactIDs drops zero ids and duplicates.
func compactIDs(ids []int64) []int64 {
	out := ids[:0:0]
	seen := map[int64]bool{}
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func ownerOf(o *entity.Offer) int64 {
	if o == nil || o.ProductID == nil {
		return 0
	}
	return *o.ProductID
}
