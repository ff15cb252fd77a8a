package service

import (
	"context"
	"errors"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/common/pagination"
	"github.com/AlibekovAA/microblog/internal/follow/domain"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
	"github.com/AlibekovAA/microblog/internal/storage"
)

type FollowService struct {
	store storage.Store
	log   *logger.Logger
}

func NewFollowService(store storage.Store, log *logger.Logger) *FollowService {
	return &FollowService{store: store, log: log}
}

// Follow adds the edge follower -> target. Repeating it, or following
// oneself, is a no-op reported through the result rather than an error.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID accountdomain.ID) (domain.FollowResult, error) {
	var result domain.FollowResult
	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireAccounts(ctx, repos, followerID, targetID); err != nil {
			return err
		}
		if followerID == targetID {
			result = domain.AlreadyFollowingSelf
			return nil
		}

		created, err := repos.Follows().Insert(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		if created {
			result = domain.EdgeCreated
		} else {
			result = domain.AlreadyFollowing
		}
		return nil
	})
	if err != nil {
		return result, s.failure(ctx, "follow", followerID, targetID, err)
	}

	metrics.FollowOperations.WithLabelValues("follow", result.String()).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"follower_id": followerID,
		"followed_id": targetID,
		"result":      result.String(),
		"action":      "follow",
	}).Debug("follow processed")
	return result, nil
}

// Unfollow removes the edge follower -> target. The self-edge is never
// removed; asking for it yields CannotUnfollowSelf.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID accountdomain.ID) (domain.UnfollowResult, error) {
	var result domain.UnfollowResult
	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := requireAccounts(ctx, repos, followerID, targetID); err != nil {
			return err
		}
		if followerID == targetID {
			result = domain.CannotUnfollowSelf
			return nil
		}

		removed, err := repos.Follows().Delete(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		if removed {
			result = domain.EdgeRemoved
		} else {
			result = domain.NotFollowing
		}
		return nil
	})
	if err != nil {
		return result, s.failure(ctx, "unfollow", followerID, targetID, err)
	}

	metrics.FollowOperations.WithLabelValues("unfollow", result.String()).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"follower_id": followerID,
		"followed_id": targetID,
		"result":      result.String(),
		"action":      "unfollow",
	}).Debug("unfollow processed")
	return result, nil
}

func (s *FollowService) failure(ctx context.Context, op string, followerID, targetID accountdomain.ID, err error) error {
	err = mapRepositoryError(err)
	outcome := "error"
	if errors.Is(err, commonerrors.ErrAccountNotFound) {
		outcome = "not_found"
	}
	metrics.FollowOperations.WithLabelValues(op, outcome).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"follower_id": followerID,
		"followed_id": targetID,
		"action":      op + "_failed",
	}).Warnf("%s failed: %v", op, err)
	return err
}

func requireAccounts(ctx context.Context, repos storage.Repositories, ids ...accountdomain.ID) error {
	for _, id := range ids {
		if _, err := repos.Accounts().FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID accountdomain.ID) (bool, error) {
	ok, err := s.store.Follows().Exists(ctx, followerID, targetID)
	if err != nil {
		return false, mapRepositoryError(err)
	}
	return ok, nil
}

// FollowedSet lists every account whose posts belong in accountID's feed,
// accountID itself included through its self-edge.
func (s *FollowService) FollowedSet(ctx context.Context, accountID accountdomain.ID) ([]accountdomain.ID, error) {
	ids, err := FollowedSet(ctx, s.store, accountID)
	return ids, mapRepositoryError(err)
}

// FollowedSet is the repository-level lookup shared with the timeline so it
// can run inside the caller's transaction.
func FollowedSet(ctx context.Context, repos storage.Repositories, accountID accountdomain.ID) ([]accountdomain.ID, error) {
	if _, err := repos.Accounts().FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	return repos.Follows().FollowedIDs(ctx, accountID)
}

func (s *FollowService) FollowersOf(ctx context.Context, accountID accountdomain.ID) ([]accountdomain.ID, error) {
	if _, err := s.store.Accounts().FindByID(ctx, accountID); err != nil {
		return nil, mapRepositoryError(err)
	}
	ids, err := s.store.Follows().FollowerIDs(ctx, accountID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return ids, nil
}

func (s *FollowService) FollowedPage(ctx context.Context, accountID accountdomain.ID, page, size int) (pagination.Page[accountdomain.Summary], error) {
	return s.summaryPage(ctx, accountID, page, size, false)
}

func (s *FollowService) FollowersPage(ctx context.Context, accountID accountdomain.ID, page, size int) (pagination.Page[accountdomain.Summary], error) {
	return s.summaryPage(ctx, accountID, page, size, true)
}

// summaryPage pages through either side of accountID's edges, ordered by
// handle. The self-edge is listed like any other.
func (s *FollowService) summaryPage(ctx context.Context, accountID accountdomain.ID, page, size int, followers bool) (pagination.Page[accountdomain.Summary], error) {
	var result pagination.Page[accountdomain.Summary]
	err := s.store.WithReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, err := repos.Accounts().FindByID(ctx, accountID); err != nil {
			return err
		}

		count, list := repos.Follows().CountFollowed, repos.Follows().ListFollowed
		if followers {
			count, list = repos.Follows().CountFollowers, repos.Follows().ListFollowers
		}

		total, err := count(ctx, accountID)
		if err != nil {
			return err
		}
		window, err := pagination.Paginate(total, page, size)
		if err != nil {
			return err
		}
		items, err := list(ctx, accountID, window.Offset, window.Limit)
		if err != nil {
			return err
		}
		result = pagination.NewPage(items, window)
		return nil
	})
	if err != nil {
		return pagination.Page[accountdomain.Summary]{}, mapRepositoryError(err)
	}
	return result, nil
}

// Counts reports followers and following for display, not counting the
// self-edge on either side.
func (s *FollowService) Counts(ctx context.Context, accountID accountdomain.ID) (domain.Counts, error) {
	var counts domain.Counts
	err := s.store.WithReadTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, err := repos.Accounts().FindByID(ctx, accountID); err != nil {
			return err
		}
		self, err := repos.Follows().Exists(ctx, accountID, accountID)
		if err != nil {
			return err
		}
		followers, err := repos.Follows().CountFollowers(ctx, accountID)
		if err != nil {
			return err
		}
		following, err := repos.Follows().CountFollowed(ctx, accountID)
		if err != nil {
			return err
		}
		if self {
			followers--
			following--
		}
		counts = domain.Counts{Followers: followers, Following: following}
		return nil
	})
	if err != nil {
		return domain.Counts{}, mapRepositoryError(err)
	}
	return counts, nil
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, accountrepo.ErrAccountNotFound):
		return commonerrors.ErrAccountNotFound
	default:
		return commonerrors.StorageFailure(err)
	}
}
