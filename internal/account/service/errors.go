package service

import (
	"errors"

	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

// MapRepositoryError converts account repository sentinels into domain
// errors. Anything else is reported as a storage failure.
func MapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, accountrepo.ErrAccountNotFound):
		return commonerrors.ErrAccountNotFound
	case errors.Is(err, accountrepo.ErrHandleExists):
		return commonerrors.ErrDuplicateHandle
	case errors.Is(err, accountrepo.ErrEmailExists):
		return commonerrors.ErrDuplicateEmail
	default:
		return commonerrors.StorageFailure(err)
	}
}
