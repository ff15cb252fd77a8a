package service

import (
	"context"
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type mockAccounts struct {
	createFunc      func(ctx context.Context, input accountservice.CreateInput) (accountdomain.Account, error)
	findByIDFunc    func(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error)
	findByEmailFunc func(ctx context.Context, email string) (accountdomain.Account, error)
	updateFunc      func(ctx context.Context, id accountdomain.ID, input accountservice.UpdateInput) (accountdomain.Account, error)
}

func (m *mockAccounts) Create(ctx context.Context, input accountservice.CreateInput) (accountdomain.Account, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return accountdomain.Account{ID: "acc-1", Handle: input.Handle, Email: input.Email, PasswordHash: input.CredentialHash}, nil
}

func (m *mockAccounts) FindByID(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return accountdomain.Account{}, commonerrors.ErrAccountNotFound
}

func (m *mockAccounts) FindByEmail(ctx context.Context, email string) (accountdomain.Account, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return accountdomain.Account{}, commonerrors.ErrAccountNotFound
}

func (m *mockAccounts) Update(ctx context.Context, id accountdomain.ID, input accountservice.UpdateInput) (accountdomain.Account, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, input)
	}
	return accountdomain.Account{ID: id}, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return ErrInvalidCredentials
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "jti-123", nil
}

func setupAuthService() (*AuthService, *mockAccounts, *mockHasher, *mockIDGenerator, *clock.MockClock) {
	accounts := &mockAccounts{}
	hasher := &mockHasher{}
	ids := &mockIDGenerator{}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "auth-test", "error")

	issuer := NewTokenIssuer(testSecret, ids, 15*time.Minute, clk)
	return NewAuthService(accounts, hasher, issuer, log), accounts, hasher, ids, clk
}
