package service

import (
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func recordAttempt(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}
