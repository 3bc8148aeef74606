package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/AlibekovAA/bearer-auth/internal/auth/notify"
	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/bearer-auth/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
	Create(ctx context.Context, user userdomain.User) (userdomain.User, error)
}

type AccessTokenIssuer interface {
	IssueToken(subject string, ttl time.Duration) (IssuedToken, error)
}

type TokenVerifier interface {
	Verify(tokenString string) (jwtverify.Claims, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, subject string) (userdomain.User, error)
}

type WelcomeNotifier interface {
	Submit(ctx context.Context, job notify.Job) bool
}

type Config struct {
	AccessTokenTTL time.Duration
}

type AuthService struct {
	store          UserStore
	hasher         commoncrypto.PasswordHasher
	issuer         AccessTokenIssuer
	verifier       TokenVerifier
	sessions       Authenticator
	notifier       WelcomeNotifier
	log            *logger.Logger
	accessTokenTTL time.Duration
	dummyHash      string
	now            func() time.Time
}

// NewAuthService wires the service. notifier may be nil, in which case no
// welcome jobs are submitted.
func NewAuthService(
	store UserStore,
	hasher commoncrypto.PasswordHasher,
	issuer AccessTokenIssuer,
	verifier TokenVerifier,
	sessions Authenticator,
	notifier WelcomeNotifier,
	cfg Config,
	log *logger.Logger,
) *AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = constants.DefaultAccessTokenTTL
	}

	s := &AuthService{
		store:          store,
		hasher:         hasher,
		issuer:         issuer,
		verifier:       verifier,
		sessions:       sessions,
		notifier:       notifier,
		log:            log,
		accessTokenTTL: cfg.AccessTokenTTL,
		now:            time.Now,
	}

	// Login against an unknown username still runs one bcrypt comparison
	// against this hash, so both failure paths take the same time.
	dummy, err := hasher.Hash("timing-equalizer-password")
	if err != nil {
		log.Warnf("failed to prepare dummy password hash: %v", err)
	}
	s.dummyHash = dummy

	return s
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		recordRegistration("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.User{}, err
	}

	_, err := s.store.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		recordRegistration("duplicate")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_username_exists",
		}).Warn("register failed: already exists")
		return userdomain.User{}, ErrDuplicateUsername
	case !errors.Is(err, userrepo.ErrUserNotFound):
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_lookup_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, storeUnavailable(err)
	}

	hashStart := time.Now()
	hash, err := s.hasher.Hash(input.Password)
	observePasswordHash(hashStart)
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		if errors.Is(err, commoncrypto.ErrPasswordLength) {
			return userdomain.User{}, ErrValidationPasswordLength.WithCause(err)
		}
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user, err := s.store.Create(ctx, userdomain.User{
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			recordRegistration("duplicate")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return userdomain.User{}, ErrDuplicateUsername.WithCause(err)
		}
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, storeUnavailable(err)
	}

	recordRegistration("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  int64(user.ID),
		"action":   "register_success",
	}).Info("register success")

	s.submitWelcome(ctx, user)

	return user, nil
}

func (s *AuthService) submitWelcome(ctx context.Context, user userdomain.User) {
	if s.notifier == nil {
		return
	}
	if !s.notifier.Submit(ctx, notify.Job{UserID: int64(user.ID), Username: user.Username}) {
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"action":   "register_welcome_not_queued",
		}).Warn("welcome notification not queued")
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	// No stored username can fail this check, and text columns reject such
	// bytes with an error that would otherwise read as a store outage.
	if !utf8.ValidString(input.Username) {
		s.hasher.Verify(input.Password, s.dummyHash)
		recordLogin("bad_credentials")
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_invalid_username_encoding",
		}).Warn("login failed: username is not valid UTF-8")
		return AuthResult{}, ErrBadCredentials
	}

	user, err := s.store.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.hasher.Verify(input.Password, s.dummyHash)
			recordLogin("bad_credentials")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrBadCredentials
		}
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, storeUnavailable(err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		recordLogin("bad_credentials")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrBadCredentials
	}

	issued, err := s.issuer.IssueToken(user.Username, s.accessTokenTTL)
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  int64(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	recordLogin("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  int64(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return AuthResult{
		AccessToken: issued.Token,
		TokenType:   constants.TokenType,
		ExpiresAt:   issued.ExpiresAt,
		ExpiresIn:   s.accessTokenTTL,
	}, nil
}

// AuthenticateToken maps every token rejection to ErrUnauthenticated. The
// precise reason is kept as the cause for logging. A store outage is
// reported as such.
func (s *AuthService) AuthenticateToken(ctx context.Context, tokenString string) (userdomain.User, error) {
	claims, err := s.verifier.Verify(tokenString)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "token_rejected",
		}).Debugf("token rejected: %v", err)
		return userdomain.User{}, ErrUnauthenticated.WithCause(err)
	}

	return s.AuthenticateClaims(ctx, claims)
}

// AuthenticateClaims resolves already verified claims to a live user.
func (s *AuthService) AuthenticateClaims(ctx context.Context, claims jwtverify.Claims) (userdomain.User, error) {
	user, err := s.sessions.Authenticate(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUnknownSubject) {
			s.log.WithFields(ctx, logger.Fields{
				"username": claims.Subject,
				"action":   "token_subject_unknown",
			}).Warn("token subject no longer exists")
			return userdomain.User{}, ErrUnauthenticated.WithCause(err)
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": claims.Subject,
			"action":   "token_subject_lookup_failed",
		}).Errorf("token subject lookup failed: %v", err)
		return userdomain.User{}, err
	}
	return user, nil
}
