package service

import (
	"unicode/utf8"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
)

func validateCredentials(username, password string) error {
	if len(username) == 0 || len(username) > constants.UsernameMaxLength {
		return ErrValidationUsernameLength
	}
	if !utf8.ValidString(username) {
		return ErrValidationUsernameEncoding
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidationPasswordLength
	}

	return nil
}
