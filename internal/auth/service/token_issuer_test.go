package service

import (
	"errors"
	"testing"
	"time"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/clock"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, &mockIDGenerator{}, 15*time.Minute, clock.NewRealClock())

	token, expiresAt, err := issuer.IssueAccessToken(accountdomain.Account{ID: "acc-1", Handle: "john"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Handle != "john" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenIssuer_IDGenerationError(t *testing.T) {
	ids := &mockIDGenerator{newIDFunc: func() (string, error) { return "", errors.New("id generation failed") }}
	issuer := NewTokenIssuer(testSecret, ids, 15*time.Minute, clock.NewRealClock())

	if _, _, err := issuer.IssueAccessToken(accountdomain.Account{ID: "acc-1", Handle: "john"}); err == nil {
		t.Fatal("expected error")
	}
}
