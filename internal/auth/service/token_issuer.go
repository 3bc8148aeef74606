package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
)

type TokenIssuer struct {
	key   jwtverify.SigningKey
	clock clock.Clock
}

func NewTokenIssuer(key jwtverify.SigningKey, clk clock.Clock) *TokenIssuer {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenIssuer{key: key, clock: clk}
}

// IssuedToken is a signed token together with the expiry written into it.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// IssueToken signs an HS256 token for subject that expires ttl from now. A
// non-positive ttl yields a token that is already expired.
func (ti *TokenIssuer) IssueToken(subject string, ttl time.Duration) (IssuedToken, error) {
	if subject == "" {
		return IssuedToken{}, ErrEmptySubject
	}

	now := ti.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key.Bytes())
	if err != nil {
		return IssuedToken{}, err
	}

	incrementAccessTokensIssued()
	return IssuedToken{Token: tokenString, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (ti *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	issued, err := ti.IssueToken(subject, ttl)
	return issued.Token, err
}

func (ti *TokenIssuer) IssueDefault(subject string) (string, error) {
	return ti.Issue(subject, constants.DefaultTokenTTL)
}
