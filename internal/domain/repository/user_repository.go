package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
// Lookups return ErrNotFound when no row matches; Create returns ErrDuplicate
// on a unique violation of external_id or username.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	ListFollowers(ctx context.Context, userID string) ([]entity.UserSummary, error)
	ListFollowing(ctx context.Context, userID string) ([]entity.UserSummary, error)
}

// FollowRepository owns follow edges. Follow writes the edge and the
// notification in one transaction and reports whether the edge was new.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID string, n *entity.Notification) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
}
