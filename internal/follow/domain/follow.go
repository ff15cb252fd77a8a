package domain

import (
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
)

// Edge means the follower's feed includes the followed account's posts.
type Edge struct {
	FollowerID accountdomain.ID
	FollowedID accountdomain.ID
	CreatedAt  time.Time
}

func (e Edge) IsSelf() bool {
	return e.FollowerID == e.FollowedID
}

type FollowResult int

const (
	EdgeCreated FollowResult = iota
	AlreadyFollowing
	AlreadyFollowingSelf
)

func (r FollowResult) Changed() bool {
	return r == EdgeCreated
}

func (r FollowResult) String() string {
	switch r {
	case EdgeCreated:
		return "edge_created"
	case AlreadyFollowing:
		return "already_following"
	case AlreadyFollowingSelf:
		return "self"
	default:
		return "unknown"
	}
}

type UnfollowResult int

const (
	EdgeRemoved UnfollowResult = iota
	NotFollowing
	CannotUnfollowSelf
)

func (r UnfollowResult) Changed() bool {
	return r == EdgeRemoved
}

func (r UnfollowResult) String() string {
	switch r {
	case EdgeRemoved:
		return "edge_removed"
	case NotFollowing:
		return "not_following"
	case CannotUnfollowSelf:
		return "cannot_unfollow_self"
	default:
		return "unknown"
	}
}

type Counts struct {
	Followers int
	Following int
}
