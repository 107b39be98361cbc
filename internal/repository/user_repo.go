package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealheat/dealheat-go/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// FindByID returns a user's reputation slice.
func (r *UserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, karma, level, created_at, updated_at
		FROM users
		WHERE id = $1`,
		userID).Scan(&u.ID, &u.Username, &u.Karma, &u.Level, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
