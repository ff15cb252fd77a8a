package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/microblog/internal/account/domain"
)

type Repository interface {
	Create(ctx context.Context, account domain.Account) error
	FindByID(ctx context.Context, id domain.ID) (domain.Account, error)
	FindByHandle(ctx context.Context, handle string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	UpdateLastSeenBatch(ctx context.Context, ids []domain.ID, at time.Time) error
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrHandleExists    = errors.New("handle already exists")
	ErrEmailExists     = errors.New("email already exists")
)
