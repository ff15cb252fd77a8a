// Package service merges the posts of everyone an account follows into a
// single paginated feed.
package service

import (
	"context"
	"errors"
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/common/pagination"
	followservice "github.com/AlibekovAA/microblog/internal/follow/service"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
	"github.com/AlibekovAA/microblog/internal/storage"
)

type TimelineService struct {
	store storage.Store
	log   *logger.Logger
}

func NewTimelineService(store storage.Store, log *logger.Logger) *TimelineService {
	return &TimelineService{store: store, log: log}
}

// FeedPage returns page pageNumber of accountID's feed ordered by
// (created_at DESC, id DESC). The followed set, the count and the page are
// read in one read-only transaction so they agree with each other.
func (s *TimelineService) FeedPage(ctx context.Context, accountID accountdomain.ID, pageNumber, pageSize int) (pagination.Page[postdomain.Post], error) {
	start := time.Now()

	var page pagination.Page[postdomain.Post]
	err := s.store.WithReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		authors, err := followservice.FollowedSet(ctx, repos, accountID)
		if err != nil {
			return err
		}

		total, err := repos.Posts().CountByAuthors(ctx, authors)
		if err != nil {
			return err
		}
		window, err := pagination.Paginate(total, pageNumber, pageSize)
		if err != nil {
			return err
		}
		posts, err := repos.Posts().ListByAuthors(ctx, authors, window.Offset, window.Limit)
		if err != nil {
			return err
		}
		page = pagination.NewPage(posts, window)
		return nil
	})
	if err != nil {
		err = mapError(err)
		s.log.WithFields(ctx, logger.Fields{
			"account_id": accountID,
			"page":       pageNumber,
			"action":     "feed_page_failed",
		}).Warnf("feed page failed: %v", err)
		return pagination.Page[postdomain.Post]{}, err
	}

	metrics.FeedPageDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.FeedPageSize.Observe(float64(len(page.Items)))
	return page, nil
}

func mapError(err error) error {
	if errors.Is(err, accountrepo.ErrAccountNotFound) {
		return commonerrors.ErrAccountNotFound
	}
	return commonerrors.StorageFailure(err)
}
