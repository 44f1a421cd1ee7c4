package application

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
	repo "github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social-graph/internal/metrics"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
)

// ProfileCache is a read-through cache of profiles keyed by external id.
// Invalidate bumps a per-user generation; Set is dropped when the
// generation no longer matches the one read before loading u.
type ProfileCache interface {
	Get(ctx context.Context, externalID string) (*entity.User, bool, error)
	Generation(ctx context.Context, externalID string) (int64, error)
	Set(ctx context.Context, u *entity.User, gen int64) error
	Invalidate(ctx context.Context, externalIDs ...string) error
}

// EventPublisher hands notification jobs to the broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore persists an uploaded image and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Service implements user sync, profiles, the follow graph and
// notifications. Cache, Events and Avatars are optional.
type Service struct {
	Users         repo.UserRepository
	Follows       repo.FollowRepository
	Notifications repo.NotificationRepository
	Directory     identity.Directory
	Logger        *logrus.Logger
	Metrics       metrics.Recorder

	Cache   ProfileCache
	Events  EventPublisher
	Avatars AvatarStore

	PublishTimeout time.Duration
}

func NewService(users repo.UserRepository, follows repo.FollowRepository, notifications repo.NotificationRepository, dir identity.Directory, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &Service{
		Users:          users,
		Follows:        follows,
		Notifications:  notifications,
		Directory:      dir,
		Logger:         logger,
		Metrics:        metrics.Noop{},
		PublishTimeout: 3 * time.Second,
	}
}

func (s *Service) invalidate(ctx context.Context, externalIDs ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, externalIDs...); err != nil {
		s.Logger.WithError(err).WithField("external_ids", externalIDs).Warn("profile cache invalidate failed")
	}
}
