package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/bearer-auth/internal/common/resilience"
	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

// GuardedRepository routes every call through a circuit breaker. Lookups
// that miss and duplicate inserts are answers, not outages, so they never
// trip it.
type GuardedRepository struct {
	next    Repository
	breaker *resilience.CircuitBreaker
}

func NewGuardedRepository(next Repository, cfg resilience.CircuitBreakerConfig) *GuardedRepository {
	cfg.IsFailure = isStoreFailure
	return &GuardedRepository{next: next, breaker: resilience.NewCircuitBreaker(cfg)}
}

func isStoreFailure(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUsernameAlreadyExists),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func (r *GuardedRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	var created domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		created, err = r.next.Create(ctx, user)
		return err
	})
	return created, err
}

func (r *GuardedRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.FindByUsername(ctx, username)
		return err
	})
	return user, err
}

func (r *GuardedRepository) DeleteByUsername(ctx context.Context, username string) error {
	return r.breaker.Call(ctx, func(ctx context.Context) error {
		return r.next.DeleteByUsername(ctx, username)
	})
}
