package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social-graph/internal/interface/middleware"
)

type MetricsModule struct {
	Handler http.Handler
	RDB     *redis.Client
}

func NewMetricsModule(h http.Handler, rdb *redis.Client) *MetricsModule {
	return &MetricsModule{Handler: h, RDB: rdb}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Public Prometheus endpoint, rate-limited per IP; in-cluster scrapers bypass
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Handler))
}
