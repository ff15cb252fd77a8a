package postgres

import (
	"context"
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
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO accounts (id, handle, email, password_hash, bio, last_seen, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(account.ID),
		account.Handle,
		account.Email,
		account.PasswordHash,
		account.Bio,
		account.LastSeen,
		account.CreatedAt,
	)
	if uniqueErr := accountConflict(err); uniqueErr != nil {
		db.MeasureQueryDuration(db.DriverPostgres, "create account", start)
		return uniqueErr
	}
	return db.HandleExecError(db.DriverPostgres, err, "create account", start)
}

func (r *AccountRepository) FindByID(ctx context.Context, id domain.ID) (domain.Account, error) {
	return r.findOne(ctx, "find account by id", `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, string(id))
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (domain.Account, error) {
	return r.findOne(ctx, "find account by handle", `SELECT `+accountColumns+` FROM accounts WHERE handle = $1`, handle)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.findOne(ctx, "find account by email", `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) findOne(ctx context.Context, operation, query string, arg interface{}) (domain.Account, error) {
	start := time.Now()
	row := r.q.QueryRow(ctx, query, arg)

	var a domain.Account
	err := row.Scan(&a.ID, &a.Handle, &a.Email, &a.PasswordHash, &a.Bio, &a.LastSeen, &a.CreatedAt)
	if err := db.HandleQueryError(db.DriverPostgres, err, accountrepo.ErrAccountNotFound, operation, start); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	start := time.Now()
	tag, err := r.q.Exec(
		ctx,
		`UPDATE accounts SET handle = $2, bio = $3, password_hash = $4 WHERE id = $1`,
		string(account.ID),
		account.Handle,
		account.Bio,
		account.PasswordHash,
	)
	if uniqueErr := accountConflict(err); uniqueErr != nil {
		db.MeasureQueryDuration(db.DriverPostgres, "update account", start)
		return uniqueErr
	}
	if err := db.HandleExecError(db.DriverPostgres, err, "update account", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return accountrepo.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateLastSeenBatch(ctx context.Context, ids []domain.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()
	_, err := r.q.Exec(
		ctx,
		`UPDATE accounts SET last_seen = $2 WHERE id = ANY($1)`,
		domain.Strings(ids),
		at,
	)
	return db.HandleExecError(db.DriverPostgres, err, "update account last seen", start)
}

func accountConflict(err error) error {
	code, constraint := pgErrorCode(err)
	if code != codeUniqueViolation {
		return nil
	}
	if constraint == "accounts_email_key" {
		return accountrepo.ErrEmailExists
	}
	return accountrepo.ErrHandleExists
}
