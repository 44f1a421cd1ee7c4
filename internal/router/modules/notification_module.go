package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	handlers "github.com/oksasatya/go-ddd-social-graph/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-graph/internal/interface/middleware"
)

type NotificationModule struct {
	Handler  *handlers.NotificationHandler
	Verifier identity.Verifier
	RDB      *redis.Client
}

func NewNotificationModule(h *handlers.NotificationHandler, v identity.Verifier, rdb *redis.Client) *NotificationModule {
	return &NotificationModule{Handler: h, Verifier: v, RDB: rdb}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	n := rg.Group("/notifications")
	n.Use(middleware.Auth(m.Verifier))
	n.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIdentity(), nil))
	{
		n.GET("", m.Handler.List)
		n.PATCH("/:id/read", m.Handler.MarkRead)
	}
}
