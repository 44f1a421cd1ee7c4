package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

func (s *Service) ListNotifications(ctx context.Context, externalID string, limit int) ([]entity.Notification, error) {
	if externalID == "" {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	u, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, notFound(err)
	}
	return s.Notifications.ListForUser(ctx, u.ID, limit)
}

// MarkNotificationRead only succeeds for notifications addressed to the caller.
func (s *Service) MarkNotificationRead(ctx context.Context, externalID, notificationID string) error {
	if externalID == "" {
		return ErrUnauthenticated
	}
	u, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return notFound(err)
	}
	if err := s.Notifications.MarkRead(ctx, notificationID, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
