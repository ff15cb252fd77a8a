// Package storage ties the account, post and follow repositories to one
// backing database with explicit transaction scopes.
package storage

import (
	"context"

	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	followrepo "github.com/AlibekovAA/microblog/internal/follow/repository"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
	"github.com/AlibekovAA/microblog/internal/search"
)

type Repositories interface {
	Accounts() accountrepo.Repository
	Posts() postrepo.Repository
	Follows() followrepo.Repository
}

// TxFunc must only use the Repositories it is handed; reaching back to the
// Store from inside a transaction is not supported.
type TxFunc func(ctx context.Context, repos Repositories) error

type Store interface {
	Repositories
	// WithTx commits when fn returns nil and rolls back on error or panic.
	WithTx(ctx context.Context, fn TxFunc) error
	// WithReadTx gives fn a consistent snapshot for multi-query reads.
	WithReadTx(ctx context.Context, fn TxFunc) error
	SearchIndex() search.Index
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
