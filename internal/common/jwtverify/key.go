package jwtverify

import (
	"fmt"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
)

// SigningKey is the HMAC secret shared by issuer and verifier. It is copied
// on construction and never mutated afterwards.
type SigningKey struct {
	secret []byte
}

func NewSigningKey(secret string) (SigningKey, error) {
	if len(secret) < constants.JWTSecretMinLength {
		return SigningKey{}, fmt.Errorf("signing secret must be at least %d bytes, got %d", constants.JWTSecretMinLength, len(secret))
	}
	b := make([]byte, len(secret))
	copy(b, secret)
	return SigningKey{secret: b}, nil
}

// Bytes returns a copy of the secret.
func (k SigningKey) Bytes() []byte {
	b := make([]byte, len(k.secret))
	copy(b, k.secret)
	return b
}

func (k SigningKey) IsZero() bool {
	return len(k.secret) == 0
}
