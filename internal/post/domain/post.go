package domain

import (
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
)

// ID is assigned by the store in insertion order and breaks timestamp ties.
type ID int64

type Post struct {
	ID        ID
	AuthorID  accountdomain.ID
	Body      string
	CreatedAt time.Time
}

// Newer reports whether p sorts before other in a feed.
func (p Post) Newer(other Post) bool {
	if !p.CreatedAt.Equal(other.CreatedAt) {
		return p.CreatedAt.After(other.CreatedAt)
	}
	return p.ID > other.ID
}
