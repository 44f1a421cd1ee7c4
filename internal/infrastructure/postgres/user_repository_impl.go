package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
)

const userColumns = `
	u.id::text, u.external_id, u.username, u.email, u.first_name, u.last_name,
	u.profile_picture, u.created_at, u.updated_at,
	COALESCE((SELECT array_agg(f.followee_id::text) FROM follows f WHERE f.follower_id = u.id), '{}') AS following,
	COALESCE((SELECT array_agg(f.follower_id::text) FROM follows f WHERE f.followee_id = u.id), '{}') AS followers`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (external_id, username, email, first_name, last_name, profile_picture)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, u.ExternalID, u.Username, u.Email, u.FirstName, u.LastName, u.ProfilePicture)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapErr(err)
	}
	u.Following = []string{}
	u.Followers = []string{}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.external_id = $1`, externalID)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt, &u.Following, &u.Followers); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

// Update writes the client-mutable columns. Relationship data lives in
// follows and is never touched here.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $1, first_name = $2, last_name = $3, profile_picture = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, u.Username, u.FirstName, u.LastName, u.ProfilePicture, u.ID)
	return mapErr(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) ListFollowers(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	return r.listSummaries(ctx, `
		SELECT u.id::text, u.username, u.first_name, u.last_name, u.profile_picture
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *UserRepository) ListFollowing(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	return r.listSummaries(ctx, `
		SELECT u.id::text, u.username, u.first_name, u.last_name, u.profile_picture
		FROM follows f JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *UserRepository) listSummaries(ctx context.Context, query, userID string) ([]entity.UserSummary, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.UserSummary, error) {
		var s entity.UserSummary
		err := row.Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.ProfilePicture)
		return s, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
