package http

import (
	"net/http"

	"github.com/AlibekovAA/microblog/internal/common/constants"
	"github.com/AlibekovAA/microblog/internal/common/httpmetrics"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware every route shares.
func BuildBaseHandler(serviceName string, log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New(serviceName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxRequestSize(collector.Wrap(handler)))))
}
