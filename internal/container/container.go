package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/config"
	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.
// Optional collaborators (search, image store, events) stay nil when not
// configured; their getters return untyped nil interfaces so services can
// test for absence.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	hasher     helpers.PasswordHasher

	productIndex *helpers.ESProductIndex
	imageStore   *helpers.GCSImageStore
	rabbitPub    *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

// GetCache is the Redis client as a command interface, nil when unset.
func GetCache() redis.Cmdable {
	if redisClient == nil {
		return nil
	}
	return redisClient
}

func SetHasher(h helpers.PasswordHasher) { hasher = h }
func GetHasher() helpers.PasswordHasher {
	if hasher != nil {
		return hasher
	}
	return helpers.DefaultArgon2id()
}

func SetProductIndex(x *helpers.ESProductIndex) { productIndex = x }
func SetImageStore(s *helpers.GCSImageStore)    { imageStore = s }
func SetRabbitPub(p *helpers.RabbitPublisher)   { rabbitPub = p }

func GetProductIndex() application.ProductIndex {
	if productIndex == nil {
		return nil
	}
	return productIndex
}

func GetImageStore() application.ImageStore {
	if imageStore == nil {
		return nil
	}
	return imageStore
}

func GetEvents() application.EventPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}
