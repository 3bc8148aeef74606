package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

// runRepositoryContract exercises the behaviour every store must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("create then find", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, domain.User{Username: "alice", PasswordHash: "$2a$hash"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		found, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "$2a$hash", found.PasswordHash)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, domain.User{Username: "Alice", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = repo.FindByUsername(ctx, "alice")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Create(ctx, domain.User{Username: "bob", PasswordHash: "h1"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, domain.User{Username: "bob", PasswordHash: "h2"})
		require.ErrorIs(t, err, ErrUsernameAlreadyExists)

		found, err := repo.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "h1", found.PasswordHash)
	})

	t.Run("concurrent duplicate creates leave one row", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const workers = 8
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Create(ctx, domain.User{Username: "carol", PasswordHash: "h"}); err == nil {
					succeeded.Add(1)
				} else {
					assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
	})

	t.Run("delete by username", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, domain.User{Username: "dave", PasswordHash: "h"})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByUsername(ctx, "dave"))
		require.ErrorIs(t, repo.DeleteByUsername(ctx, "dave"), ErrUserNotFound)

		_, err = repo.FindByUsername(ctx, "dave")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
