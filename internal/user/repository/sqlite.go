package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/AlibekovAA/bearer-auth/internal/common/db"
	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path and applies the embedded
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer; one connection keeps writes queued in
	// the pool instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := db.Migrate(ctx, sqlDB, db.DialectSQLite); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &SQLiteRepository{db: sqlDB}, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (username, hashed_password, created_at) VALUES (?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.CreatedAt.UnixMilli(),
	)
	if isSQLiteUniqueViolation(err) {
		_ = db.HandleExecError(nil, "create user", start)
		return domain.User{}, ErrUsernameAlreadyExists
	}
	if err := db.HandleExecError(err, "create user", start); err != nil {
		return domain.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("read inserted user id: %w", err)
	}

	user.ID = domain.ID(id)
	user.CreatedAt = time.UnixMilli(user.CreatedAt.UnixMilli()).UTC()
	return user, nil
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, username, hashed_password, created_at FROM users WHERE username = ?`,
		username,
	)

	var (
		user      domain.User
		id        int64
		createdAt int64
	)
	err := row.Scan(&id, &user.Username, &user.PasswordHash, &createdAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by username", start); err != nil {
		return domain.User{}, err
	}

	user.ID = domain.ID(id)
	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	return user, nil
}

func (r *SQLiteRepository) DeleteByUsername(ctx context.Context, username string) error {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err := db.HandleExecError(err, "delete user by username", start); err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
