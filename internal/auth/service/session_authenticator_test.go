package service

import (
	"context"
	"errors"
	"testing"

	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

func TestSessionAuthenticator_Found(t *testing.T) {
	store := &mockUserStore{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{ID: 7, Username: username}, nil
		},
	}

	user, err := NewSessionAuthenticator(store).Authenticate(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestSessionAuthenticator_UnknownSubject(t *testing.T) {
	auth := NewSessionAuthenticator(&mockUserStore{})

	for _, subject := range []string{"ghost", ""} {
		if _, err := auth.Authenticate(context.Background(), subject); !errors.Is(err, ErrUnknownSubject) {
			t.Errorf("subject %q: expected ErrUnknownSubject, got %v", subject, err)
		}
	}
}

func TestSessionAuthenticator_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	store := &mockUserStore{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, boom
		},
	}

	_, err := NewSessionAuthenticator(store).Authenticate(context.Background(), "alice")
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if errors.Is(err, userrepo.ErrUserNotFound) {
		t.Error("store failure must not look like a missing user")
	}
}
