package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/db"
)

const accountColumns = `id, handle, email, password_hash, bio, last_seen, created_at`

type AccountRepository struct {
	q querier
}

var _ accountrepo.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	start := time.Now()
	_, err := r.q.ExecContext(
		ctx,
		`INSERT INTO accounts (id, handle, email, password_hash, bio, last_seen, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(account.ID),
		account.Handle,
		account.Email,
		account.PasswordHash,
		account.Bio,
		account.LastSeen.UnixNano(),
		account.CreatedAt.UnixNano(),
	)
	if uniqueErr := accountConflict(err); uniqueErr != nil {
		db.MeasureQueryDuration(db.DriverSQLite, "create account", start)
		return uniqueErr
	}
	return db.HandleExecError(db.DriverSQLite, err, "create account", start)
}

func (r *AccountRepository) FindByID(ctx context.Context, id domain.ID) (domain.Account, error) {
	return r.findOne(ctx, "find account by id", `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, string(id))
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (domain.Account, error) {
	return r.findOne(ctx, "find account by handle", `SELECT `+accountColumns+` FROM accounts WHERE handle = ?`, handle)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.findOne(ctx, "find account by email", `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

func (r *AccountRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.Account, error) {
	start := time.Now()
	row := r.q.QueryRowContext(ctx, query, arg)

	var (
		a                   domain.Account
		lastSeen, createdAt int64
	)
	err := row.Scan(&a.ID, &a.Handle, &a.Email, &a.PasswordHash, &a.Bio, &lastSeen, &createdAt)
	if err := db.HandleQueryError(db.DriverSQLite, err, accountrepo.ErrAccountNotFound, operation, start); err != nil {
		return domain.Account{}, err
	}
	a.LastSeen = toTime(lastSeen)
	a.CreatedAt = toTime(createdAt)
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	start := time.Now()
	res, err := r.q.ExecContext(
		ctx,
		`UPDATE accounts SET handle = ?, bio = ?, password_hash = ? WHERE id = ?`,
		account.Handle,
		account.Bio,
		account.PasswordHash,
		string(account.ID),
	)
	if uniqueErr := accountConflict(err); uniqueErr != nil {
		db.MeasureQueryDuration(db.DriverSQLite, "update account", start)
		return uniqueErr
	}
	if err := db.HandleExecError(db.DriverSQLite, err, "update account", start); err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return accountrepo.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateLastSeenBatch(ctx context.Context, ids []domain.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, at.UnixNano())
	for _, id := range ids {
		args = append(args, string(id))
	}

	start := time.Now()
	_, err := r.q.ExecContext(
		ctx,
		`UPDATE accounts SET last_seen = ? WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	return db.HandleExecError(db.DriverSQLite, err, "update account last seen", start)
}

func accountConflict(err error) error {
	kind, msg := constraintViolation(err)
	if kind != uniqueConstraint {
		return nil
	}
	if strings.Contains(msg, "accounts.email") {
		return accountrepo.ErrEmailExists
	}
	return accountrepo.ErrHandleExists
}
