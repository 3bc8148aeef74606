package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/auth/notify"
	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockUserStore struct {
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	createFunc         func(ctx context.Context, user userdomain.User) (userdomain.User, error)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return user, nil
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, hash string) bool

	mu          sync.Mutex
	verifyCalls []string
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	m.mu.Lock()
	m.verifyCalls = append(m.verifyCalls, hash)
	m.mu.Unlock()
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed:"+password
}

type mockNotifier struct {
	mu   sync.Mutex
	jobs []notify.Job
	ok   bool
}

func (m *mockNotifier) Submit(ctx context.Context, job notify.Job) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return m.ok
}

type testEnv struct {
	svc      *AuthService
	store    *mockUserStore
	hasher   *mockHasher
	notifier *mockNotifier
	issuer   *TokenIssuer
	clock    *clock.MockClock
}

func mustKey(t *testing.T) jwtverify.SigningKey {
	t.Helper()
	key, err := jwtverify.NewSigningKey(testSecret)
	if err != nil {
		t.Fatalf("NewSigningKey: %v", err)
	}
	return key
}

func setupAuthService(t *testing.T) *testEnv {
	t.Helper()

	key := mustKey(t)
	clk := clock.NewMockClock(time.Unix(1_700_000_000, 0))
	store := &mockUserStore{}
	hasher := &mockHasher{}
	notifier := &mockNotifier{ok: true}
	issuer := NewTokenIssuer(key, clk)
	verifier := jwtverify.NewVerifier(key, clk)

	svc := NewAuthService(
		store,
		hasher,
		issuer,
		verifier,
		NewSessionAuthenticator(store),
		notifier,
		Config{AccessTokenTTL: 30 * time.Minute},
		logger.NewWithWriter(&bytes.Buffer{}, "test", "error"),
	)
	svc.now = clk.Now

	return &testEnv{
		svc:      svc,
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		issuer:   issuer,
		clock:    clk,
	}
}
