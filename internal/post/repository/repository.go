package repository

import (
	"context"
	"errors"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/post/domain"
)

// Repository lists posts newest first, ties broken by descending id.
type Repository interface {
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	FindByIDForUpdate(ctx context.Context, id domain.ID) (domain.Post, error)
	FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.Post, error)
	Delete(ctx context.Context, id domain.ID) error
	CountByAuthors(ctx context.Context, authorIDs []accountdomain.ID) (int, error)
	ListByAuthors(ctx context.Context, authorIDs []accountdomain.ID, offset, limit int) ([]domain.Post, error)
}

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrAuthorNotFound = errors.New("post author not found")
)
