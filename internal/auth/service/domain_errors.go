package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrValidationPasswordLength = commonerrors.ErrValidation.WithMessage(
		"password must be between 8 and 72 characters",
	)

	ErrValidationPasswordLatinDigit = commonerrors.ErrValidation.WithMessage(
		"password must contain at least one letter and one digit",
	)
)
