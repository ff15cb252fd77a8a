package http

import (
	"errors"
	"net/http"

	"github.com/AlibekovAA/microblog/internal/common/constants"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
)

// decode writes the error response itself and reports whether the handler
// should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	traceID := commonhttp.TraceIDFromContext(r.Context())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeRequestTooLarge, "request body too large", nil, traceID)
		return false
	}
	h.log.Warnf("invalid json path=%s: %v", r.URL.Path, err)
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, traceID)
	return false
}

// pageParams reads page and size. Sizes above MaxPageSize are clamped; zero
// or negative values reach the paginator and fail there.
func pageParams(r *http.Request, defaultSize int) (int, int, error) {
	page, err := commonhttp.QueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, commonerrors.ErrInvalidPageNumber.WithCause(err)
	}
	size, err := commonhttp.QueryInt(r, "size", defaultSize)
	if err != nil {
		return 0, 0, commonerrors.ErrInvalidPageSize.WithCause(err)
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}
	return page, size, nil
}
