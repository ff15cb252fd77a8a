package crypto

import (
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "password123" {
		t.Fatal("expected hash to differ from password")
	}
	if err := h.Compare(hash, "password123"); err != nil {
		t.Errorf("expected matching password, got %v", err)
	}
	if err := h.Compare(hash, "wrong-password"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := g.NewID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected uuid, got %q", a)
	}
}
