package main

import (
	"context"

	"github.com/AlibekovAA/microblog/internal/common/config"
	"github.com/AlibekovAA/microblog/internal/common/db"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/storage"
	"github.com/AlibekovAA/microblog/internal/storage/postgres"
	"github.com/AlibekovAA/microblog/internal/storage/sqlite"
)

// openStore connects the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (storage.Store, error) {
	var store storage.Store
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Infof("using sqlite store at %s", cfg.SQLitePath)
		store = s
	default:
		pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = postgres.New(pool)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
