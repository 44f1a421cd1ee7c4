package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

// FollowRepository stores one row per directed edge, so the following and
// followers projections of a pair cannot drift apart.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Follow inserts the edge and, only when the edge is new, the notification.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID string, n *entity.Notification) (bool, error) {
	created := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO follows (follower_id, followee_id)
			VALUES ($1, $2)
			ON CONFLICT (follower_id, followee_id) DO NOTHING
		`, followerID, followeeID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		created = true
		if n == nil {
			return nil
		}
		return tx.QueryRow(ctx, `
			INSERT INTO notifications (from_user_id, to_user_id, type)
			VALUES ($1, $2, $3)
			RETURNING id::text, is_read, created_at
		`, n.FromUserID, n.ToUserID, string(n.Type)).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	})
	if err != nil {
		return false, mapErr(err)
	}
	return created, nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
