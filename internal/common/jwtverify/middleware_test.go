package jwtverify

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	valid := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "acc-1", "usr": "john", "exp": exp})
	claims, err := ParseToken(valid, []byte(testSecret))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Handle != "john" {
		t.Errorf("unexpected claims %+v", claims)
	}

	missing := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "acc-1", "exp": exp})
	if _, err := ParseToken(missing, []byte(testSecret)); !errors.Is(err, commonerrors.ErrMissingTokenClaims) {
		t.Errorf("expected ErrMissingTokenClaims, got %v", err)
	}

	expired := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "acc-1", "usr": "john", "exp": time.Now().Add(-time.Hour).Unix()})
	if _, err := ParseToken(expired, []byte(testSecret)); !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := ParseToken(valid, []byte("another-secret-another-secret-xx")); !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")
	var seen Claims
	handler := Middleware(testSecret, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "acc-1", "usr": "john", "exp": time.Now().Add(time.Hour).Unix()})
	req = httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen.AccountID != "acc-1" {
		t.Errorf("expected claims in context, got %+v", seen)
	}
}
