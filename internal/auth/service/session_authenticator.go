package service

import (
	"context"
	"errors"

	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
}

// SessionAuthenticator resolves the subject of a verified token against the
// live store, so a deleted user's tokens stop working immediately.
type SessionAuthenticator struct {
	users UserFinder
}

func NewSessionAuthenticator(users UserFinder) *SessionAuthenticator {
	return &SessionAuthenticator{users: users}
}

func (a *SessionAuthenticator) Authenticate(ctx context.Context, subject string) (userdomain.User, error) {
	if subject == "" {
		return userdomain.User{}, ErrUnknownSubject
	}

	user, err := a.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, ErrUnknownSubject
		}
		return userdomain.User{}, storeUnavailable(err)
	}
	return user, nil
}
