// Package storagetest opens throwaway SQLite stores for package tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AlibekovAA/microblog/internal/storage/sqlite"
)

func NewSQLiteStore(t testing.TB) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "microblog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate store: %v", err)
	}
	return store
}
