package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/config"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	"github.com/oksasatya/go-ddd-social-graph/internal/metrics"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	verifier  identity.Verifier
	directory identity.Directory

	rabbitPub *helpers.RabbitPublisher
	collector *metrics.Collector
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }
func SetGCS(s *storage.Client)   { gcsClient = s }

// GetGCS is nil when no bucket is configured.
func GetGCS() *storage.Client { return gcsClient }

func SetVerifier(v identity.Verifier)   { verifier = v }
func GetVerifier() identity.Verifier    { return verifier }
func SetDirectory(d identity.Directory) { directory = d }
func GetDirectory() identity.Directory  { return directory }

// GetRabbitPub is nil when the broker was unreachable at boot.
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func SetMetrics(c *metrics.Collector)         { collector = c }
func GetMetrics() *metrics.Collector          { return collector }
