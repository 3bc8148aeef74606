package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	commoncrypto "github.com/AlibekovAA/bearer-auth/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

func TestAuthService_Register_Success(t *testing.T) {
	env := setupAuthService(t)

	var stored userdomain.User
	env.store.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		stored = user
		user.ID = 42
		return user, nil
	}

	user, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != 42 || user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}
	if stored.PasswordHash != "hashed:s3cret" {
		t.Errorf("expected hashed password to be stored, got %q", stored.PasswordHash)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if len(env.notifier.jobs) != 1 || env.notifier.jobs[0].Username != "alice" || env.notifier.jobs[0].UserID != 42 {
		t.Errorf("expected one welcome job for alice, got %+v", env.notifier.jobs)
	}
}

func TestAuthService_Register_ValidationError(t *testing.T) {
	env := setupAuthService(t)
	env.store.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		t.Fatal("store must not be called for invalid input")
		return userdomain.User{}, nil
	}

	cases := []RegisterInput{
		{Username: "", Password: "pw"},
		{Username: strings.Repeat("u", 65), Password: "pw"},
		{Username: "\xff", Password: "pw"},
		{Username: "alice", Password: ""},
		{Username: "alice", Password: strings.Repeat("p", 73)},
	}

	for _, in := range cases {
		_, err := env.svc.Register(context.Background(), in)
		domainErr, ok := commonerrors.AsDomainError(err)
		if !ok || domainErr.Code() != "VALIDATION_FAILED" {
			t.Errorf("input %q/%d bytes: expected VALIDATION_FAILED, got %v", in.Username, len(in.Password), err)
		}
	}

	if len(env.notifier.jobs) != 0 {
		t.Error("no welcome job expected for rejected registration")
	}
}

func TestAuthService_Register_DuplicateFromLookup(t *testing.T) {
	env := setupAuthService(t)
	env.store.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{ID: 1, Username: username, PasswordHash: "hashed:first"}, nil
	}
	env.store.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		t.Fatal("create must not be called when the username exists")
		return userdomain.User{}, nil
	}

	_, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "second"})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthService_Register_DuplicateFromUniqueIndex(t *testing.T) {
	env := setupAuthService(t)
	env.store.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUsernameAlreadyExists
	}

	_, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if !errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
		t.Errorf("expected store cause to be preserved, got %v", err)
	}
	if len(env.notifier.jobs) != 0 {
		t.Error("no welcome job expected for duplicate")
	}
}

func TestAuthService_Register_StoreUnavailable(t *testing.T) {
	env := setupAuthService(t)
	boom := errors.New("db down")
	env.store.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, boom
	}

	_, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped ErrStoreUnavailable, got %v", err)
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	env := setupAuthService(t)
	env.hasher.hashFunc = func(password string) (string, error) {
		return "", errors.New("entropy exhausted")
	}

	_, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected ErrInternalError, got %v", err)
	}
}

func TestAuthService_Register_HasherLengthRejection(t *testing.T) {
	env := setupAuthService(t)
	env.hasher.hashFunc = func(password string) (string, error) {
		return "", commoncrypto.ErrPasswordLength
	}

	_, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Register_WelcomeRejectedKeepsUser(t *testing.T) {
	env := setupAuthService(t)
	env.notifier.ok = false

	user, err := env.svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("registration must succeed when welcome job is dropped, got %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}
}
