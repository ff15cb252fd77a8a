package sqlite

import (
	"context"
	"database/sql"
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/db"
	followrepo "github.com/AlibekovAA/microblog/internal/follow/repository"
)

type FollowRepository struct {
	q querier
}

var _ followrepo.Repository = (*FollowRepository)(nil)

func (r *FollowRepository) Insert(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error) {
	start := time.Now()
	res, err := r.q.ExecContext(
		ctx,
		`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		string(followerID),
		string(followedID),
		time.Now().UnixNano(),
	)
	if kind, _ := constraintViolation(err); kind == foreignKeyConstraint {
		db.MeasureQueryDuration(db.DriverSQLite, "insert follow", start)
		return false, accountrepo.ErrAccountNotFound
	}
	if err := db.HandleExecError(db.DriverSQLite, err, "insert follow", start); err != nil {
		return false, err
	}
	return changedOne(res), nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error) {
	start := time.Now()
	res, err := r.q.ExecContext(
		ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		string(followerID),
		string(followedID),
	)
	if err := db.HandleExecError(db.DriverSQLite, err, "delete follow", start); err != nil {
		return false, err
	}
	return changedOne(res), nil
}

func changedOne(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n == 1
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID accountdomain.ID) (bool, error) {
	start := time.Now()
	row := r.q.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)`,
		string(followerID),
		string(followedID),
	)

	var exists bool
	if err := db.HandleQueryError(db.DriverSQLite, row.Scan(&exists), nil, "check follow", start); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *FollowRepository) FollowedIDs(ctx context.Context, followerID accountdomain.ID) ([]accountdomain.ID, error) {
	return r.ids(ctx, "list followed ids",
		`SELECT followed_id FROM follows WHERE follower_id = ? ORDER BY followed_id`, followerID)
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, followedID accountdomain.ID) ([]accountdomain.ID, error) {
	return r.ids(ctx, "list follower ids",
		`SELECT follower_id FROM follows WHERE followed_id = ? ORDER BY follower_id`, followedID)
}

func (r *FollowRepository) ids(ctx context.Context, operation, query string, id accountdomain.ID) ([]accountdomain.ID, error) {
	start := time.Now()
	rows, err := r.q.QueryContext(ctx, query, string(id))
	if err != nil {
		return nil, db.HandleExecError(db.DriverSQLite, err, operation, start)
	}
	defer rows.Close()

	ids := make([]accountdomain.ID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, db.HandleExecError(db.DriverSQLite, err, operation, start)
		}
		ids = append(ids, accountdomain.ID(raw))
	}
	if err := db.HandleExecError(db.DriverSQLite, rows.Err(), operation, start); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *FollowRepository) CountFollowed(ctx context.Context, followerID accountdomain.ID) (int, error) {
	return r.count(ctx, "count followed", `SELECT COUNT(*) FROM follows WHERE follower_id = ?`, followerID)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, followedID accountdomain.ID) (int, error) {
	return r.count(ctx, "count followers", `SELECT COUNT(*) FROM follows WHERE followed_id = ?`, followedID)
}

func (r *FollowRepository) count(ctx context.Context, operation, query string, id accountdomain.ID) (int, error) {
	start := time.Now()
	var count int
	err := r.q.QueryRowContext(ctx, query, string(id)).Scan(&count)
	if err := db.HandleQueryError(db.DriverSQLite, err, nil, operation, start); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FollowRepository) ListFollowed(ctx context.Context, followerID accountdomain.ID, offset, limit int) ([]accountdomain.Summary, error) {
	return r.summaries(ctx, "list followed accounts",
		`SELECT a.id, a.handle, a.email, a.bio, a.last_seen
		 FROM follows f
		 JOIN accounts a ON a.id = f.followed_id
		 WHERE f.follower_id = ?
		 ORDER BY a.handle
		 LIMIT ? OFFSET ?`,
		followerID, offset, limit)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followedID accountdomain.ID, offset, limit int) ([]accountdomain.Summary, error) {
	return r.summaries(ctx, "list follower accounts",
		`SELECT a.id, a.handle, a.email, a.bio, a.last_seen
		 FROM follows f
		 JOIN accounts a ON a.id = f.follower_id
		 WHERE f.followed_id = ?
		 ORDER BY a.handle
		 LIMIT ? OFFSET ?`,
		followedID, offset, limit)
}

func (r *FollowRepository) summaries(ctx context.Context, operation, query string, id accountdomain.ID, offset, limit int) ([]accountdomain.Summary, error) {
	if limit <= 0 {
		return []accountdomain.Summary{}, nil
	}
	start := time.Now()
	rows, err := r.q.QueryContext(ctx, query, string(id), limit, offset)
	if err != nil {
		return nil, db.HandleExecError(db.DriverSQLite, err, operation, start)
	}
	defer rows.Close()

	out := make([]accountdomain.Summary, 0)
	for rows.Next() {
		var (
			s        accountdomain.Summary
			lastSeen int64
		)
		if err := rows.Scan(&s.ID, &s.Handle, &s.Email, &s.Bio, &lastSeen); err != nil {
			return nil, db.HandleExecError(db.DriverSQLite, err, operation, start)
		}
		s.LastSeen = toTime(lastSeen)
		out = append(out, s)
	}
	if err := db.HandleExecError(db.DriverSQLite, rows.Err(), operation, start); err != nil {
		return nil, err
	}
	return out, nil
}
