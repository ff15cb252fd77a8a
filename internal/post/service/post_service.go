package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	"github.com/AlibekovAA/microblog/internal/common/constants"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/common/pagination"
	"github.com/AlibekovAA/microblog/internal/common/validation"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
	"github.com/AlibekovAA/microblog/internal/post/domain"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
	"github.com/AlibekovAA/microblog/internal/search"
	"github.com/AlibekovAA/microblog/internal/storage"
)

type PostService struct {
	store            storage.Store
	index            search.Index
	clock            clock.Clock
	log              *logger.Logger
	maxSearchResults int
}

type Deps struct {
	Store            storage.Store
	Index            search.Index
	Clock            clock.Clock
	Log              *logger.Logger
	MaxSearchResults int
}

func NewPostService(deps Deps) *PostService {
	if deps.Index == nil {
		deps.Index = deps.Store.SearchIndex()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.MaxSearchResults <= 0 {
		deps.MaxSearchResults = constants.DefaultMaxSearchResults
	}
	return &PostService{
		store:            deps.Store,
		index:            deps.Index,
		clock:            deps.Clock,
		log:              deps.Log,
		maxSearchResults: deps.MaxSearchResults,
	}
}

type CreateInput struct {
	AuthorID  accountdomain.ID `json:"author_id" validate:"required"`
	Body      string           `json:"body" validate:"required,max=280"`
	Timestamp time.Time        `json:"timestamp"`
}

// Create stores a post for an existing author. A zero Timestamp means now.
// The search index is updated after commit; an indexing failure is logged
// and does not undo the post.
func (s *PostService) Create(ctx context.Context, input CreateInput) (domain.Post, error) {
	if err := validation.Struct(input); err != nil {
		return domain.Post{}, err
	}
	if strings.TrimSpace(input.Body) == "" {
		return domain.Post{}, commonerrors.ErrValidation.WithMessage("body is required")
	}

	created := input.Timestamp
	if created.IsZero() {
		created = s.clock.Now()
	}

	var post domain.Post
	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		post, err = repos.Posts().Create(ctx, domain.Post{
			AuthorID:  input.AuthorID,
			Body:      input.Body,
			CreatedAt: created.UTC(),
		})
		return err
	})
	if err != nil {
		err = mapRepositoryError(err)
		metrics.PostOperations.WithLabelValues("create", "error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"author_id": input.AuthorID,
			"action":    "post_create_failed",
		}).Warnf("post create failed: %v", err)
		return domain.Post{}, err
	}

	metrics.PostOperations.WithLabelValues("create", "ok").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"author_id": post.AuthorID,
		"post_id":   post.ID,
		"action":    "post_created",
	}).Info("post created")

	if err := s.index.Index(ctx, post); err != nil {
		s.indexFailed(ctx, "index", post.ID, err)
	}
	return post, nil
}

// DeleteIfOwner removes the post only when requesterID wrote it.
func (s *PostService) DeleteIfOwner(ctx context.Context, postID domain.ID, requesterID accountdomain.ID) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		post, err := repos.Posts().FindByIDForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != requesterID {
			return commonerrors.ErrNotAuthor
		}
		return repos.Posts().Delete(ctx, postID)
	})
	if err != nil {
		err = mapRepositoryError(err)
		outcome := "error"
		if errors.Is(err, commonerrors.ErrNotAuthor) {
			outcome = "not_author"
		} else if errors.Is(err, commonerrors.ErrPostNotFound) {
			outcome = "not_found"
		}
		metrics.PostOperations.WithLabelValues("delete", outcome).Inc()
		s.log.WithFields(ctx, logger.Fields{
			"post_id":      postID,
			"requester_id": requesterID,
			"action":       "post_delete_failed",
		}).Warnf("post delete failed: %v", err)
		return err
	}

	metrics.PostOperations.WithLabelValues("delete", "ok").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"post_id":      postID,
		"requester_id": requesterID,
		"action":       "post_deleted",
	}).Info("post deleted")

	if err := s.index.Remove(ctx, postID); err != nil {
		s.indexFailed(ctx, "remove", postID, err)
	}
	return nil
}

func (s *PostService) indexFailed(ctx context.Context, operation string, id domain.ID, err error) {
	metrics.SearchIndexFailures.WithLabelValues(operation).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"post_id": id,
		"action":  "search_" + operation + "_failed",
	}).Errorf("search index %s failed: %v", operation, err)
}

func (s *PostService) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	post, err := s.store.Posts().FindByID(ctx, id)
	if err != nil {
		return domain.Post{}, mapRepositoryError(err)
	}
	return post, nil
}

// FindByAuthor pages through one author's posts, newest first.
func (s *PostService) FindByAuthor(ctx context.Context, authorID accountdomain.ID, page, size int) (pagination.Page[domain.Post], error) {
	var result pagination.Page[domain.Post]
	err := s.store.WithReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, err := repos.Accounts().FindByID(ctx, authorID); err != nil {
			return err
		}
		authors := []accountdomain.ID{authorID}

		total, err := repos.Posts().CountByAuthors(ctx, authors)
		if err != nil {
			return err
		}
		window, err := pagination.Paginate(total, page, size)
		if err != nil {
			return err
		}
		posts, err := repos.Posts().ListByAuthors(ctx, authors, window.Offset, window.Limit)
		if err != nil {
			return err
		}
		result = pagination.NewPage(posts, window)
		return nil
	})
	if err != nil {
		return pagination.Page[domain.Post]{}, mapRepositoryError(err)
	}
	return result, nil
}

func (s *PostService) CountByAuthors(ctx context.Context, authorIDs []accountdomain.ID) (int, error) {
	total, err := s.store.Posts().CountByAuthors(ctx, authorIDs)
	return total, mapRepositoryError(err)
}

// FindByAuthors returns posts by any of authorIDs ordered by
// (created_at DESC, id DESC).
func (s *PostService) FindByAuthors(ctx context.Context, authorIDs []accountdomain.ID, offset, limit int) ([]domain.Post, error) {
	posts, err := s.store.Posts().ListByAuthors(ctx, authorIDs, offset, limit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return posts, nil
}

// FindByIDs returns the posts in the order of ids, skipping ids that no
// longer exist.
func (s *PostService) FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.Post, error) {
	found, err := s.store.Posts().FindByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	byID := make(map[domain.ID]domain.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]domain.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// Search asks the index for matching ids and hydrates them in the index's
// ranking order. limit is clamped to the configured maximum.
func (s *PostService) Search(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, commonerrors.ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > constants.MaxSearchQueryLength {
		return nil, commonerrors.ErrQueryTooLong
	}
	if limit <= 0 || limit > s.maxSearchResults {
		limit = s.maxSearchResults
	}

	ids, err := s.index.Search(ctx, query, limit)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "search_failed",
		}).Errorf("search failed: %v", err)
		return nil, commonerrors.StorageFailure(err)
	}
	return s.FindByIDs(ctx, ids)
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, postrepo.ErrPostNotFound):
		return commonerrors.ErrPostNotFound
	case errors.Is(err, postrepo.ErrAuthorNotFound), errors.Is(err, accountrepo.ErrAccountNotFound):
		return commonerrors.ErrAccountNotFound
	default:
		return commonerrors.StorageFailure(err)
	}
}
