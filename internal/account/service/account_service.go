package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/microblog/internal/account/domain"
	accountrepo "github.com/AlibekovAA/microblog/internal/account/repository"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/microblog/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/common/validation"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
	"github.com/AlibekovAA/microblog/internal/storage"
)

type AccountService struct {
	store       storage.Store
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

type Deps struct {
	Store       storage.Store
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewAccountService(deps Deps) *AccountService {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = commoncrypto.NewUUIDGenerator()
	}
	return &AccountService{
		store:       deps.Store,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type CreateInput struct {
	Handle         string `json:"handle" validate:"required,min=2,max=64,handle"`
	Email          string `json:"email" validate:"required,email,max=120"`
	CredentialHash string `json:"credential_hash" validate:"required"`
}

// Create inserts the account together with its self-edge so that the owner's
// posts appear in their own feed from the start. Email is checked before
// handle, so a request colliding on both reports DUPLICATE_EMAIL.
func (s *AccountService) Create(ctx context.Context, input CreateInput) (domain.Account, error) {
	if err := validation.Struct(input); err != nil {
		return domain.Account{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Account{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	account := domain.Account{
		ID:           domain.ID(id),
		Handle:       input.Handle,
		Email:        input.Email,
		PasswordHash: input.CredentialHash,
		LastSeen:     now,
		CreatedAt:    now,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := ensureFree(ctx, repos.Accounts().FindByEmail, input.Email, commonerrors.ErrDuplicateEmail); err != nil {
			return err
		}
		if err := ensureFree(ctx, repos.Accounts().FindByHandle, input.Handle, commonerrors.ErrDuplicateHandle); err != nil {
			return err
		}
		if err := repos.Accounts().Create(ctx, account); err != nil {
			return err
		}
		_, err := repos.Follows().Insert(ctx, account.ID, account.ID)
		return err
	})
	if err != nil {
		err = MapRepositoryError(err)
		s.log.WithFields(ctx, logger.Fields{
			"handle": input.Handle,
			"action": "account_create_failed",
		}).Warnf("account create failed: %v", err)
		return domain.Account{}, err
	}

	metrics.AccountsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"account_id": account.ID,
		"handle":     account.Handle,
		"action":     "account_created",
	}).Info("account created")

	return account, nil
}

func ensureFree(ctx context.Context, find func(context.Context, string) (domain.Account, error), value string, taken error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, accountrepo.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

func (s *AccountService) FindByID(ctx context.Context, id domain.ID) (domain.Account, error) {
	account, err := s.store.Accounts().FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, MapRepositoryError(err)
	}
	return account, nil
}

func (s *AccountService) FindByHandle(ctx context.Context, handle string) (domain.Account, error) {
	account, err := s.store.Accounts().FindByHandle(ctx, handle)
	if err != nil {
		return domain.Account{}, MapRepositoryError(err)
	}
	return account, nil
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	account, err := s.store.Accounts().FindByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, MapRepositoryError(err)
	}
	return account, nil
}

type UpdateInput struct {
	Handle         *string `json:"handle" validate:"omitnil,min=2,max=64,handle"`
	Bio            *string `json:"bio" validate:"omitnil,max=140"`
	CredentialHash *string `json:"credential_hash" validate:"omitnil,min=1"`
}

func (in UpdateInput) changes() domain.Changes {
	return domain.Changes{
		Handle:       in.Handle,
		Bio:          in.Bio,
		PasswordHash: in.CredentialHash,
	}
}

// Update applies the non-nil fields of input. An empty update still verifies
// that the account exists.
func (s *AccountService) Update(ctx context.Context, id domain.ID, input UpdateInput) (domain.Account, error) {
	if err := validation.Struct(input); err != nil {
		return domain.Account{}, err
	}
	changes := input.changes()

	var updated domain.Account
	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		current, err := repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if changes.Empty() {
			updated = current
			return nil
		}

		if changes.Handle != nil && *changes.Handle != current.Handle {
			if err := ensureFree(ctx, repos.Accounts().FindByHandle, *changes.Handle, commonerrors.ErrDuplicateHandle); err != nil {
				return err
			}
		}

		updated = changes.Apply(current)
		return repos.Accounts().Update(ctx, updated)
	})
	if err != nil {
		err = MapRepositoryError(err)
		s.log.WithFields(ctx, logger.Fields{
			"account_id": id,
			"action":     "account_update_failed",
		}).Warnf("account update failed: %v", err)
		return domain.Account{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"account_id": id,
		"action":     "account_updated",
	}).Debug("account updated")
	return updated, nil
}

// TouchLastSeen stamps the current time on every listed account.
func (s *AccountService) TouchLastSeen(ctx context.Context, ids []domain.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return MapRepositoryError(s.store.Accounts().UpdateLastSeenBatch(ctx, ids, s.clock.Now()))
}
