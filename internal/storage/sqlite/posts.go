package sqlite

import (
	"context"
	"database/sql"
	"time"

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
	res, err := r.q.ExecContext(
		ctx,
		`INSERT INTO posts (author_id, body, created_at) VALUES (?, ?, ?)`,
		string(post.AuthorID),
		post.Body,
		post.CreatedAt.UnixNano(),
	)
	if kind, _ := constraintViolation(err); kind == foreignKeyConstraint {
		db.MeasureQueryDuration(db.DriverSQLite, "create post", start)
		return domain.Post{}, postrepo.ErrAuthorNotFound
	}
	if err := db.HandleExecError(db.DriverSQLite, err, "create post", start); err != nil {
		return domain.Post{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Post{}, db.HandleExecError(db.DriverSQLite, err, "create post", start)
	}
	post.ID = domain.ID(id)
	return post, nil
}

// FindByIDForUpdate needs no row lock: the single connection already
// serializes writers for the life of the transaction.
func (r *PostRepository) FindByIDForUpdate(ctx context.Context, id domain.ID) (domain.Post, error) {
	return r.findOne(ctx, "find post for update", id)
}

func (r *PostRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	return r.findOne(ctx, "find post by id", id)
}

func (r *PostRepository) findOne(ctx context.Context, operation string, id domain.ID) (domain.Post, error) {
	start := time.Now()
	row := r.q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, int64(id))

	var (
		p         domain.Post
		createdAt int64
	)
	err := row.Scan(&p.ID, &p.AuthorID, &p.Body, &createdAt)
	if err := db.HandleQueryError(db.DriverSQLite, err, postrepo.ErrPostNotFound, operation, start); err != nil {
		return domain.Post{}, err
	}
	p.CreatedAt = toTime(createdAt)
	return p, nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []domain.ID) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}

	start := time.Now()
	rows, err := r.q.QueryContext(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE id IN (`+placeholders(len(ids))+`)
		 ORDER BY created_at DESC, id DESC`,
		args...,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverSQLite, err, "find posts by ids", start)
	}
	return collectPosts(rows, "find posts by ids", start)
}

func (r *PostRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	res, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, int64(id))
	if err := db.HandleExecError(db.DriverSQLite, err, "delete post", start); err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return postrepo.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) CountByAuthors(ctx context.Context, authorIDs []accountdomain.ID) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	start := time.Now()
	row := r.q.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id IN (`+placeholders(len(authorIDs))+`)`,
		idArgs(authorIDs)...,
	)

	var count int
	if err := db.HandleQueryError(db.DriverSQLite, row.Scan(&count), nil, "count posts by authors", start); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []accountdomain.ID, offset, limit int) ([]domain.Post, error) {
	if len(authorIDs) == 0 || limit <= 0 {
		return []domain.Post{}, nil
	}
	args := append(idArgs(authorIDs), limit, offset)

	start := time.Now()
	rows, err := r.q.QueryContext(
		ctx,
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE author_id IN (`+placeholders(len(authorIDs))+`)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, db.HandleExecError(db.DriverSQLite, err, "list posts by authors", start)
	}
	return collectPosts(rows, "list posts by authors", start)
}

func collectPosts(rows *sql.Rows, operation string, start time.Time) ([]domain.Post, error) {
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var (
			p         domain.Post
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Body, &createdAt); err != nil {
			return nil, db.HandleExecError(db.DriverSQLite, err, operation, start)
		}
		p.CreatedAt = toTime(createdAt)
		posts = append(posts, p)
	}
	if err := db.HandleExecError(db.DriverSQLite, rows.Err(), operation, start); err != nil {
		return nil, err
	}
	return posts, nil
}

func idArgs(ids []accountdomain.ID) []any {
	args := make([]any, len(ids), len(ids)+2)
	for i, id := range ids {
		args[i] = string(id)
	}
	return args
}
