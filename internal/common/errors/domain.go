package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that errors derived through WithCause or WithMessage
// still compare equal to the sentinel they came from.
func (e *domainError) Is(target error) bool {
	var other *domainError
	if !errors.As(target, &other) {
		return false
	}
	return e.code == other.code
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) WithMessage(message string) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  message,
		cause:    e.cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrUnknownStorageDriver = NewDomainError(
		"UNKNOWN_STORAGE_DRIVER",
		CategoryValidation,
		http.StatusInternalServerError,
		"unknown storage driver",
	)

	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrEmptyQuery = NewDomainError(
		"EMPTY_QUERY",
		CategoryValidation,
		http.StatusBadRequest,
		"query is empty",
	)

	ErrQueryTooLong = NewDomainError(
		"QUERY_TOO_LONG",
		CategoryValidation,
		http.StatusBadRequest,
		"query is too long",
	)

	ErrInvalidPageSize = NewDomainError(
		"INVALID_PAGE_SIZE",
		CategoryValidation,
		http.StatusBadRequest,
		"page size must be at least 1",
	)

	ErrInvalidPageNumber = NewDomainError(
		"INVALID_PAGE_NUMBER",
		CategoryValidation,
		http.StatusBadRequest,
		"page number must be at least 1",
	)

	ErrDuplicateHandle = NewDomainError(
		"DUPLICATE_HANDLE",
		CategoryConflict,
		http.StatusConflict,
		"nickname already exists",
	)

	ErrDuplicateEmail = NewDomainError(
		"DUPLICATE_EMAIL",
		CategoryConflict,
		http.StatusConflict,
		"email already exists",
	)

	ErrAccountNotFound = NewDomainError(
		"ACCOUNT_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"account not found",
	)

	ErrPostNotFound = NewDomainError(
		"POST_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"post not found",
	)

	ErrNotAuthor = NewDomainError(
		"NOT_AUTHOR",
		CategoryForbidden,
		http.StatusForbidden,
		"only the author can delete this post",
	)

	ErrCannotUnfollowSelf = NewDomainError(
		"CANNOT_UNFOLLOW_SELF",
		CategoryConflict,
		http.StatusConflict,
		"you cannot unfollow yourself",
	)

	ErrStorageFailure = NewDomainError(
		"STORAGE_FAILURE",
		CategoryInternal,
		http.StatusInternalServerError,
		"storage operation failed",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrInvalidTokenSigningMethod = NewDomainError(
		"INVALID_TOKEN_SIGNING_METHOD",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token signing method",
	)

	ErrInvalidTokenClaims = NewDomainError(
		"INVALID_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token claims",
	)

	ErrMissingTokenClaims = NewDomainError(
		"MISSING_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"missing required token claims",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)

// StorageFailure wraps an unexpected store error. Domain errors pass through
// untouched so callers can still match them.
func StorageFailure(err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return ErrStorageFailure.WithCause(err)
}
