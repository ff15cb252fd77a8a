// Package sqlite implements the storage contracts on an embedded SQLite file
// through modernc.org/sqlite, for single-node runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/constants"
	"github.com/AlibekovAA/microblog/internal/common/db"
	followrepo "github.com/AlibekovAA/microblog/internal/follow/repository"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
	"github.com/AlibekovAA/microblog/internal/search"
	"github.com/AlibekovAA/microblog/internal/storage"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	accounts *AccountRepository
	posts    *PostRepository
	follows  *FollowRepository
}

func newRepositories(q querier) repositories {
	return repositories{
		accounts: &AccountRepository{q: q},
		posts:    &PostRepository{q: q},
		follows:  &FollowRepository{q: q},
	}
}

func (r repositories) Accounts() accountrepo.Repository { return r.accounts }
func (r repositories) Posts() postrepo.Repository       { return r.posts }
func (r repositories) Follows() followrepo.Repository   { return r.follows }

type Store struct {
	repositories
	db    *sql.DB
	index *SearchIndex
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database file at path. A single
// connection is kept so transactions never contend for the write lock.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		path, constants.SQLiteBusyTimeout.Milliseconds())

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Store{
		repositories: newRepositories(sqlDB),
		db:           sqlDB,
		index:        &SearchIndex{q: sqlDB},
	}, nil
}

func (s *Store) WithTx(ctx context.Context, fn storage.TxFunc) error {
	return db.RunInSQLTx(ctx, s.db, false, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) WithReadTx(ctx context.Context, fn storage.TxFunc) error {
	return db.RunInSQLTx(ctx, s.db, true, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) SearchIndex() search.Index {
	return s.index
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

type constraintKind int

const (
	noConstraint constraintKind = iota
	uniqueConstraint
	foreignKeyConstraint
)

// constraintViolation classifies err and returns the SQLite message, which
// names the offending column for UNIQUE failures.
func constraintViolation(err error) (constraintKind, string) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return noConstraint, ""
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return uniqueConstraint, sqliteErr.Error()
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return foreignKeyConstraint, sqliteErr.Error()
	}
	if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqliteErr.Error()
		if strings.Contains(msg, "FOREIGN KEY") {
			return foreignKeyConstraint, msg
		}
		return uniqueConstraint, msg
	}
	return noConstraint, ""
}

func toTime(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
