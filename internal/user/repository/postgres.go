package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/bearer-auth/internal/common/db"
	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (username, hashed_password) VALUES ($1, $2) RETURNING id, created_at`,
		user.Username,
		user.PasswordHash,
	)

	var id int64
	err := row.Scan(&id, &user.CreatedAt)
	if db.IsPgUniqueViolation(err) {
		_ = db.HandleExecError(nil, "create user", start)
		return domain.User{}, ErrUsernameAlreadyExists
	}
	if err := db.HandleExecError(err, "create user", start); err != nil {
		return domain.User{}, err
	}

	user.ID = domain.ID(id)
	return user, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, hashed_password, created_at FROM users WHERE username = $1`,
		username,
	)

	var (
		user domain.User
		id   int64
	)
	err := row.Scan(&id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by username", start); err != nil {
		return domain.User{}, err
	}

	user.ID = domain.ID(id)
	return user, nil
}

func (r *PgRepository) DeleteByUsername(ctx context.Context, username string) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err := db.HandleExecError(err, "delete user by username", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
