package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/AlibekovAA/microblog/internal/common/db"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
	"github.com/AlibekovAA/microblog/internal/search"
)

// SearchIndex stores post bodies in an FTS5 table keyed by rowid = post id.
type SearchIndex struct {
	q querier
}

var _ search.Index = (*SearchIndex)(nil)

func (s *SearchIndex) Index(ctx context.Context, post postdomain.Post) error {
	start := time.Now()
	if _, err := s.q.ExecContext(ctx, `DELETE FROM post_search WHERE rowid = ?`, int64(post.ID)); err != nil {
		return db.HandleExecError(db.DriverSQLite, err, "index search post", start)
	}
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO post_search (rowid, body) VALUES (?, ?)`,
		int64(post.ID),
		post.Body,
	)
	return db.HandleExecError(db.DriverSQLite, err, "index search post", start)
}

func (s *SearchIndex) Remove(ctx context.Context, id postdomain.ID) error {
	start := time.Now()
	_, err := s.q.ExecContext(ctx, `DELETE FROM post_search WHERE rowid = ?`, int64(id))
	return db.HandleExecError(db.DriverSQLite, err, "remove search post", start)
}

func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]postdomain.ID, error) {
	terms := search.Terms(query)
	if len(terms) == 0 || limit <= 0 {
		return []postdomain.ID{}, nil
	}

	start := time.Now()
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT rowid FROM post_search WHERE post_search MATCH ? ORDER BY rank, rowid DESC LIMIT ?`,
		matchExpression(terms),
		limit,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverSQLite, err, "search posts", start)
	}
	defer rows.Close()

	ids := make([]postdomain.ID, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, db.HandleExecError(db.DriverSQLite, err, "search posts", start)
		}
		ids = append(ids, postdomain.ID(id))
	}
	if err := db.HandleExecError(db.DriverSQLite, rows.Err(), "search posts", start); err != nil {
		return nil, err
	}
	return ids, nil
}

// matchExpression quotes every term so FTS5 operators in user input are
// matched literally. Adjacent strings are implicitly ANDed.
func matchExpression(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}
