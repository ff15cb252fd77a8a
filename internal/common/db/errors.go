package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/microblog/internal/observability/metrics"
)

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	switch {
	case strings.Contains(operation, "search"):
		return "post_search"
	case strings.Contains(operation, "follow"):
		return "follows"
	case strings.Contains(operation, "post"), strings.Contains(operation, "feed"):
		return "posts"
	case strings.Contains(operation, "account"), strings.Contains(operation, "last seen"):
		return "accounts"
	}
	return "unknown"
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// HandleQueryError records timing for a single-row read and maps "no rows"
// to notFoundErr.
func HandleQueryError(driver string, err error, notFoundErr error, operation string, startTime time.Time) error {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(driver, operation, table).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	if IsNoRows(err) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(driver, operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(driver string, err error, operation string, startTime time.Time) error {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(driver, operation, table).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	metrics.DBQueryErrors.WithLabelValues(driver, operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(driver, operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(driver, operation, table).Observe(time.Since(startTime).Seconds())
}
