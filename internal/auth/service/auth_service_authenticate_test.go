package service

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

func TestAuthService_AuthenticateToken_Rejections(t *testing.T) {
	env := setupAuthService(t)
	env.store.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		if username == "alice" {
			return userdomain.User{ID: 1, Username: "alice"}, nil
		}
		return (&mockUserStore{}).FindByUsername(ctx, username)
	}

	valid, err := env.issuer.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	orphan, err := env.issuer.Issue("deleted-user", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := env.issuer.Issue("alice", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := []byte(valid)
	idx := len(tampered) - 5
	if tampered[idx] == 'A' {
		tampered[idx] = 'B'
	} else {
		tampered[idx] = 'A'
	}

	tests := []struct {
		name  string
		token string
		cause error
	}{
		{"malformed", "not-a-token", jwtverify.ErrMalformed},
		{"bad signature", string(tampered), jwtverify.ErrBadSignature},
		{"expired", expired, jwtverify.ErrExpired},
		{"orphaned", orphan, ErrUnknownSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.AuthenticateToken(context.Background(), tt.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v to be preserved, got %v", tt.cause, err)
			}
		})
	}
}

func TestAuthService_AuthenticateToken_ExpiresWithClock(t *testing.T) {
	env := setupAuthService(t)
	env.store.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{ID: 1, Username: username}, nil
	}

	token, err := env.issuer.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := env.svc.AuthenticateToken(context.Background(), token); err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}

	env.clock.Advance(time.Minute)
	if _, err := env.svc.AuthenticateToken(context.Background(), token); !errors.Is(err, jwtverify.ErrExpired) {
		t.Fatalf("expected expiry after clock advance, got %v", err)
	}
}

func TestAuthService_AuthenticateToken_StoreUnavailable(t *testing.T) {
	env := setupAuthService(t)
	env.store.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("db down")
	}

	token, err := env.issuer.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = env.svc.AuthenticateToken(context.Background(), token)
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, ErrUnauthenticated) {
		t.Error("store outage must not be reported as unauthenticated")
	}
}
