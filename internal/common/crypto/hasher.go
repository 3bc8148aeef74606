package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
)

// ErrPasswordLength is returned for passwords bcrypt cannot hash faithfully:
// empty ones and anything past 72 bytes, which bcrypt would silently ignore.
var ErrPasswordLength = errors.New("password must be between 1 and 72 bytes")

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into the range bcrypt accepts.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = constants.DefaultBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return "", ErrPasswordLength
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash or an
// over-long password yields false.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > constants.PasswordMaxLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
