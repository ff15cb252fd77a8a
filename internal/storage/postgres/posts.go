package postgres

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/db"
	"github.com/AlibekovAA/microblog/internal/post/domain"
	postrepo "github.com/AlibekovAA/microblog/internal/post/repository"
)

const postColumns = `id, author_id, body, created_at`

type PostRepository struct {
	q querier
}

var _ postrepo.Repository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	start := time.Now()
	row := r.q.QueryRow(
		ctx,
		`INSERT INTO posts (author_id, body, created_at) VALUES ($1, $2, $3) RETURNING id, created_at`,
		string(post.AuthorID),
		post.Body,
		post.CreatedAt,
	)
	// created_at is read back since the column keeps microseconds only.
	err := row.Scan(&post.ID, &post.CreatedAt)
	if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
		db.MeasureQueryDuration(db.DriverPostgres, "create post", start)
		return domain.Post{}, postrepo.ErrAuthorNotFound
	}
	if err := db.HandleExecError(db.DriverPostgres, err, "create post", start); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	return r.findOne(ctx, "find post by id", `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

func (r *PostRepository) FindByIDForUpdate(ctx context.Context, id domain.ID) (domain.Post, error) {
	return r.findOne(ctx, "find post for update", `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostRepository) findOne(ctx context.Context, operation, query string, id domain.ID) (domain.Post, error) {
	start := time.Now()
	row := r.q.QueryRow(ctx, query, int64(id))

	var p domain.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Body, &p.CreatedAt)
	if err := db.HandleQueryError(db.DriverPostgres, err, postrepo.ErrPostNotFound, operation, start); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	start := time.Now()
	rows, err := r.q.Query(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ANY($1) ORDER BY created_at DESC, id DESC`,
		raw,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverPostgres, err, "find posts by ids", start)
	}
	return collectPosts(rows, "find posts by ids", start)
}

func (r *PostRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, int64(id))
	if err := db.HandleExecError(db.DriverPostgres, err, "delete post", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return postrepo.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) CountByAuthors(ctx context.Context, authorIDs []accountdomain.ID) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	start := time.Now()
	row := r.q.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = ANY($1)`,
		accountdomain.Strings(authorIDs),
	)

	var count int
	if err := db.HandleQueryError(db.DriverPostgres, row.Scan(&count), nil, "count posts by authors", start); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []accountdomain.ID, offset, limit int) ([]domain.Post, error) {
	if len(authorIDs) == 0 || limit <= 0 {
		return []domain.Post{}, nil
	}
	start := time.Now()
	rows, err := r.q.Query(
		ctx,
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE author_id = ANY($1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		accountdomain.Strings(authorIDs),
		limit,
		offset,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverPostgres, err, "list posts by authors", start)
	}
	return collectPosts(rows, "list posts by authors", start)
}

func collectPosts(rows pgx.Rows, operation string, start time.Time) ([]domain.Post, error) {
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Body, &p.CreatedAt); err != nil {
			return nil, db.HandleExecError(db.DriverPostgres, err, operation, start)
		}
		posts = append(posts, p)
	}
	if err := db.HandleExecError(db.DriverPostgres, rows.Err(), operation, start); err != nil {
		return nil, err
	}
	return posts, nil
}
