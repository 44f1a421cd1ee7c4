package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
)

type NotificationRepository interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}
