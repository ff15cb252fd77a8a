package service

import (
	"unicode"

	"github.com/AlibekovAA/microblog/internal/common/constants"
)

// validatePassword checks the raw password before hashing. Handle and email
// rules live on the account create input.
func validatePassword(password string) error {
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidationPasswordLength
	}
	if !isValidPassword(password) {
		return ErrValidationPasswordLatinDigit
	}
	return nil
}

func isValidPassword(value string) bool {
	hasLetter := false
	hasDigit := false

	for _, r := range value {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}

	return false
}
