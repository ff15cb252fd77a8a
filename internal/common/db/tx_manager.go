package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/microblog/internal/common/constants"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
)

const DriverPostgres = "postgres"

// RunInTx executes fn inside a transaction that is committed when fn returns
// nil and rolled back on error or panic.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(context.Context, pgx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	mode := "read_write"
	if opts.AccessMode == pgx.ReadOnly {
		mode = "read_only"
	}

	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		metrics.DBTransactions.WithLabelValues(DriverPostgres, mode, "begin_failed").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactions.WithLabelValues(DriverPostgres, mode, "rollback").Inc()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactions.WithLabelValues(DriverPostgres, mode, "rollback").Inc()
		} else if err = tx.Commit(ctx); err != nil {
			metrics.DBTransactions.WithLabelValues(DriverPostgres, mode, "commit_failed").Inc()
			err = fmt.Errorf("failed to commit transaction: %w", err)
		} else {
			metrics.DBTransactions.WithLabelValues(DriverPostgres, mode, "commit").Inc()
		}
	}()

	err = fn(ctx, tx)
	return err
}
