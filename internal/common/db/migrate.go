package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/bearer-auth/internal/common/db/migrations"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// gooseUpContext is replaced in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema for the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	var (
		base fs.FS
		err  error
	)

	switch dialect {
	case DialectPostgres:
		base, err = fs.Sub(migrations.Postgres, "postgres")
	case DialectSQLite:
		base, err = fs.Sub(migrations.SQLite, "sqlite")
	default:
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	goose.SetBaseFS(base)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
