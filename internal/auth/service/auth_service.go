package service

import (
	"context"
	"errors"
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	commoncrypto "github.com/AlibekovAA/microblog/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

// AccountRegistry is the part of the account service authentication needs.
type AccountRegistry interface {
	Create(ctx context.Context, input accountservice.CreateInput) (accountdomain.Account, error)
	FindByID(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error)
	FindByEmail(ctx context.Context, email string) (accountdomain.Account, error)
	Update(ctx context.Context, id accountdomain.ID, input accountservice.UpdateInput) (accountdomain.Account, error)
}

type AuthService struct {
	accounts AccountRegistry
	hasher   commoncrypto.PasswordHasher
	issuer   *TokenIssuer
	log      *logger.Logger
}

func NewAuthService(
	accounts AccountRegistry,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
		log:      log,
	}
}

type RegisterInput struct {
	Handle   string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Account     accountdomain.Account
	AccessToken string
	ExpiresAt   time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (result AuthResult, err error) {
	defer func() { recordAttempt("register", err) }()

	s.log.WithFields(ctx, logger.Fields{
		"handle": input.Handle,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validatePassword(input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"handle": input.Handle,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"handle": input.Handle,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	account, err := s.accounts.Create(ctx, accountservice.CreateInput{
		Handle:         input.Handle,
		Email:          input.Email,
		CredentialHash: hash,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"handle": input.Handle,
			"action": "register_create_failed",
		}).Warnf("register failed: %v", err)
		return AuthResult{}, err
	}

	result, err = s.issue(ctx, account, "register")
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"handle":     account.Handle,
		"account_id": string(account.ID),
		"action":     "register_success",
	}).Info("register success")
	return result, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result AuthResult, err error) {
	defer func() { recordAttempt("login", err) }()

	account, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, commonerrors.ErrAccountNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_account_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, err
	}

	if err := s.hasher.Compare(account.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"account_id": string(account.ID),
			"action":     "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err = s.issue(ctx, account, "login")
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"account_id": string(account.ID),
		"action":     "login_success",
	}).Info("login success")
	return result, nil
}

// ChangePassword requires the current password even though the caller is
// already authenticated.
func (s *AuthService) ChangePassword(ctx context.Context, id accountdomain.ID, current, next string) (err error) {
	defer func() { recordAttempt("change_password", err) }()

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(account.PasswordHash, current); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"account_id": string(id),
			"action":     "change_password_invalid_password",
		}).Warn("change password failed: invalid password")
		return ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}
	if _, err := s.accounts.Update(ctx, id, accountservice.UpdateInput{CredentialHash: &hash}); err != nil {
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"account_id": string(id),
		"action":     "change_password_success",
	}).Info("password changed")
	return nil
}

func (s *AuthService) issue(ctx context.Context, account accountdomain.Account, operation string) (AuthResult, error) {
	token, expiresAt, err := s.issuer.IssueAccessToken(account)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"account_id": string(account.ID),
			"action":     operation + "_token_issue_failed",
		}).Errorf("%s failed: token issue error: %v", operation, err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}
	return AuthResult{
		Account:     account,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
