package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

// PathInt64 parses the named path wildcard as a positive integer id.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, commonerrors.ErrValidation.WithMessage(name + " must be a positive integer")
	}
	return id, nil
}
