package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlibekovAA/microblog/internal/common/constants"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
)

const DriverSQLite = "sqlite"

// RunInSQLTx is RunInTx for database/sql handles. SQLite serializes writers,
// so readOnly only selects the metrics label.
func RunInSQLTx(ctx context.Context, sqlDB *sql.DB, readOnly bool, fn func(context.Context, *sql.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	mode := "read_write"
	if readOnly {
		mode = "read_only"
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		metrics.DBTransactions.WithLabelValues(DriverSQLite, mode, "begin_failed").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			metrics.DBTransactions.WithLabelValues(DriverSQLite, mode, "rollback").Inc()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
			metrics.DBTransactions.WithLabelValues(DriverSQLite, mode, "rollback").Inc()
		} else if err = tx.Commit(); err != nil {
			metrics.DBTransactions.WithLabelValues(DriverSQLite, mode, "commit_failed").Inc()
			err = fmt.Errorf("failed to commit transaction: %w", err)
		} else {
			metrics.DBTransactions.WithLabelValues(DriverSQLite, mode, "commit").Inc()
		}
	}()

	err = fn(ctx, tx)
	return err
}
