package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/microblog/internal/common/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports ok when the store answers a ping within timeout.
func HealthHandler(store Pinger, timeout time.Duration, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.WithFields(ctx, logger.Fields{
				"action": "health_check_failed",
			}).Warnf("health check failed: %v", err)
			WriteErrorEnvelope(w, http.StatusServiceUnavailable, CodeUnavailable, "storage unavailable", nil, TraceIDFromContext(ctx))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
