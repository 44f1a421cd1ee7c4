package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	handlers "github.com/oksasatya/go-ddd-social-graph/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-graph/internal/interface/middleware"
)

// UserModule wires profile, sync and follow routes.
// Public: GET /users/:username, /users/:username/followers, /users/:username/following
// Protected: POST /users/sync, GET|PATCH|PUT /users/me, PUT /users/me/avatar,
// POST /users/:username/follow (the segment carries the target user id)
type UserModule struct {
	Handler  *handlers.UserHandler
	Verifier identity.Verifier
	RDB      *redis.Client
}

func NewUserModule(h *handlers.UserHandler, v identity.Verifier, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Verifier: v, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	publicLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIPAndPath(), nil)
	users.GET("/:username", publicLimiter, m.Handler.GetByUsername)
	users.GET("/:username/followers", publicLimiter, m.Handler.ListFollowers)
	users.GET("/:username/following", publicLimiter, m.Handler.ListFollowing)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Verifier))
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIdentity(), nil))
	{
		auth.POST("/sync", m.Handler.Sync)
		auth.GET("/me", m.Handler.GetCurrent)
		auth.PATCH("/me", m.Handler.UpdateCurrent)
		auth.PUT("/me", m.Handler.UpdateCurrent)
		auth.PUT("/me/avatar", middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIdentity(), nil), m.Handler.UploadAvatar)
		// tighter limit: each call flips an edge and may send a notification
		auth.POST("/:username/follow", middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIdentity(), nil), m.Handler.ToggleFollow)
	}
}
