package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/AlibekovAA/microblog/internal/common/db"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
	"github.com/AlibekovAA/microblog/internal/search"
)

// SearchIndex keeps a tsvector per post in post_search. The 'simple'
// configuration is used so matching does not depend on a stemming language.
type SearchIndex struct {
	q querier
}

var _ search.Index = (*SearchIndex)(nil)

func (s *SearchIndex) Index(ctx context.Context, post postdomain.Post) error {
	start := time.Now()
	_, err := s.q.Exec(
		ctx,
		`INSERT INTO post_search (post_id, document) VALUES ($1, to_tsvector('simple', $2))
		 ON CONFLICT (post_id) DO UPDATE SET document = EXCLUDED.document`,
		int64(post.ID),
		post.Body,
	)
	return db.HandleExecError(db.DriverPostgres, err, "index search post", start)
}

func (s *SearchIndex) Remove(ctx context.Context, id postdomain.ID) error {
	start := time.Now()
	_, err := s.q.Exec(ctx, `DELETE FROM post_search WHERE post_id = $1`, int64(id))
	return db.HandleExecError(db.DriverPostgres, err, "remove search post", start)
}

func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]postdomain.ID, error) {
	terms := search.Terms(query)
	if len(terms) == 0 || limit <= 0 {
		return []postdomain.ID{}, nil
	}

	start := time.Now()
	rows, err := s.q.Query(
		ctx,
		`SELECT post_id
		 FROM post_search, plainto_tsquery('simple', $1) AS q
		 WHERE document @@ q
		 ORDER BY ts_rank(document, q) DESC, post_id DESC
		 LIMIT $2`,
		strings.Join(terms, " "),
		limit,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverPostgres, err, "search posts", start)
	}
	defer rows.Close()

	ids := make([]postdomain.ID, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, db.HandleExecError(db.DriverPostgres, err, "search posts", start)
		}
		ids = append(ids, postdomain.ID(id))
	}
	if err := db.HandleExecError(db.DriverPostgres, rows.Err(), "search posts", start); err != nil {
		return nil, err
	}
	return ids, nil
}
