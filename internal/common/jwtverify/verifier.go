package jwtverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
	"github.com/AlibekovAA/bearer-auth/internal/observability/metrics"
)

var (
	ErrBadSignature = errors.New("token signature is invalid")
	ErrMalformed    = errors.New("token is malformed")
	ErrExpired      = errors.New("token is expired")
)

type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

type Verifier struct {
	key    SigningKey
	clock  clock.Clock
	parser *jwt.Parser
}

func NewVerifier(key SigningKey, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Verifier{
		key:   key,
		clock: clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			// Only the canonical base64url form of a segment is accepted.
			jwt.WithStrictDecoding(),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

// Verify checks the signature first and the claims second, so a tampered
// token is reported as ErrBadSignature even when it is also expired.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := v.verify(tokenString)
	if err != nil {
		metrics.JWTValidationsFailed.WithLabelValues(failureReason(err)).Inc()
		return Claims{}, err
	}
	return claims, nil
}

func (v *Verifier) verify(tokenString string) (Claims, error) {
	var registered jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(tokenString, &registered, func(*jwt.Token) (any, error) {
		return v.key.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if registered.Subject == "" {
		return Claims{}, ErrMalformed
	}

	claims := Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "malformed"
	}
}
