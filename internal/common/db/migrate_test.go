package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestMigrate_UnsupportedDialect(t *testing.T) {
	err := Migrate(context.Background(), nil, "mysql")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported migration dialect")
}

func TestMigrate_PropagatesGooseError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return boom
	}

	err := Migrate(context.Background(), nil, DialectPostgres)
	require.ErrorIs(t, err, boom)
	require.Equal(t, ".", gotDir)
}
