// Package postgres implements the storage contracts on PostgreSQL via pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/db"
	followrepo "github.com/AlibekovAA/microblog/internal/follow/repository"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
	"github.com/AlibekovAA/microblog/internal/search"
	"github.com/AlibekovAA/microblog/internal/storage"
)

//go:embed schema.sql
var schema string

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
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
	pool  *pgxpool.Pool
	index *SearchIndex
}

var _ storage.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{
		repositories: newRepositories(pool),
		pool:         pool,
		index:        &SearchIndex{q: pool},
	}
}

func (s *Store) WithTx(ctx context.Context, fn storage.TxFunc) error {
	return db.RunInTx(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) WithReadTx(ctx context.Context, fn storage.TxFunc) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return db.RunInTx(ctx, s.pool, opts, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) SearchIndex() search.Index {
	return s.index
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
