package service

import (
	"errors"
	"net/http"

	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
)

var (
	ErrDuplicateUsername = commonerrors.NewDomainError(
		"DUPLICATE_USERNAME",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"username already registered",
	)

	ErrBadCredentials = commonerrors.NewDomainError(
		"BAD_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"incorrect username or password",
	)

	ErrUnauthenticated = commonerrors.NewDomainError(
		"UNAUTHENTICATED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"could not validate credentials",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrValidationUsernameLength = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username must be between 1 and 64 bytes",
	)

	ErrValidationUsernameEncoding = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username must be valid UTF-8",
	)

	ErrValidationPasswordLength = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password must be between 1 and 72 bytes",
	)
)

var (
	// ErrUnknownSubject means a correctly signed token names a user that no
	// longer exists.
	ErrUnknownSubject = errors.New("token subject does not exist")
	ErrEmptySubject   = errors.New("token subject is empty")
)

func storeUnavailable(err error) error {
	return commonerrors.ErrStoreUnavailable.WithCause(err)
}
