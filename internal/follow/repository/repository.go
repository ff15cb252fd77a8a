package repository

import (
	"context"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
)

// Repository stores directed edges keyed by (follower, followed). Insert and
// Delete report whether the edge set actually changed.
type Repository interface {
	Insert(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error)
	Delete(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error)
	Exists(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error)
	FollowedIDs(ctx context.Context, followerID accountdomain.ID) ([]accountdomain.ID, error)
	FollowerIDs(ctx context.Context, followedID accountdomain.ID) ([]accountdomain.ID, error)
	CountFollowed(ctx context.Context, followerID accountdomain.ID) (int, error)
	CountFollowers(ctx context.Context, followedID accountdomain.ID) (int, error)
	ListFollowed(ctx context.Context, followerID accountdomain.ID, offset, limit int) ([]accountdomain.Summary, error)
	ListFollowers(ctx context.Context, followedID accountdomain.ID, offset, limit int) ([]accountdomain.Summary, error)
}
