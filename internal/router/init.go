package router

import (
	"github.com/oksasatya/go-ddd-social-graph/internal/application"
	"github.com/oksasatya/go-ddd-social-graph/internal/container"
	"github.com/oksasatya/go-ddd-social-graph/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/go-ddd-social-graph/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-ddd-social-graph/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-graph/internal/router/modules"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
)

type SocialModuleDeps struct {
	Service             *application.Service
	UserHandler         *handlers.UserHandler
	NotificationHandler *handlers.NotificationHandler
}

func buildSocialDeps() SocialModuleDeps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()

	service := application.NewService(
		pginfra.NewUserRepository(pool),
		pginfra.NewFollowRepository(pool),
		pginfra.NewNotificationRepository(pool),
		container.GetDirectory(),
		container.GetLogger(),
	)
	if rdb := container.GetRedis(); rdb != nil {
		service.Cache = cache.NewProfileCache(rdb, cfg.ProfileCacheTTL)
	}
	if gcs := container.GetGCS(); gcs != nil {
		service.Avatars = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	// assigned only when set: a nil *RabbitPublisher in the interface is not nil
	if pub := container.GetRabbitPub(); pub != nil {
		service.Events = pub
	}
	if m := container.GetMetrics(); m != nil {
		service.Metrics = m
	}

	return SocialModuleDeps{
		Service:             service,
		UserHandler:         handlers.NewUserHandler(service, container.GetLogger(), cfg.AvatarMaxBytes),
		NotificationHandler: handlers.NewNotificationHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildSocialDeps()
	rdb := container.GetRedis()
	verifier := container.GetVerifier()

	r.Add(modules.NewUserModule(deps.UserHandler, verifier, rdb))
	r.Add(modules.NewNotificationModule(deps.NotificationHandler, verifier, rdb))
	if m := container.GetMetrics(); m != nil && container.GetConfig().MetricsEnabled {
		r.Add(modules.NewMetricsModule(m.Handler(), rdb))
	}
}
