// Package search defines the full-text collaborator notified on post
// creation and deletion. Ranking belongs to the implementation.
package search

import (
	"context"
	"strings"

	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
)

type Index interface {
	Index(ctx context.Context, post postdomain.Post) error
	Remove(ctx context.Context, id postdomain.ID) error
	Search(ctx context.Context, query string, limit int) ([]postdomain.ID, error)
}

// Terms splits a free-text query into lower-cased words. Backends build their
// own query syntax from these so user input never reaches a query parser raw.
func Terms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '_' || r == '\'' || isWordRune(r))
	})
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127
}

type NopIndex struct{}

func (NopIndex) Index(context.Context, postdomain.Post) error { return nil }
func (NopIndex) Remove(context.Context, postdomain.ID) error  { return nil }
func (NopIndex) Search(context.Context, string, int) ([]postdomain.ID, error) {
	return nil, nil
}
