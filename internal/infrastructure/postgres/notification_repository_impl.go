package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, from_user_id::text, to_user_id::text, type, is_read, created_at
		FROM notifications
		WHERE to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Notification, error) {
		var n entity.Notification
		var typ string
		err := row.Scan(&n.ID, &n.FromUserID, &n.ToUserID, &typ, &n.IsRead, &n.CreatedAt)
		n.Type = entity.NotificationType(typ)
		return n, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// MarkRead only touches notifications addressed to userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND to_user_id = $2
	`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
