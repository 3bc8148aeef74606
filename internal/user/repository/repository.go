package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

type Repository interface {
	// Create stores the user and returns it with its assigned ID and
	// creation time.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)
