package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.StorageDriver != DriverSQLite {
		t.Errorf("expected driver %s, got %s", DriverSQLite, cfg.StorageDriver)
	}
	if cfg.PostsPerPage != 3 || cfg.FollowersPerPage != 3 {
		t.Errorf("expected default page sizes 3/3, got %d/%d", cfg.PostsPerPage, cfg.FollowersPerPage)
	}
	if cfg.MaxSearchResults != 50 {
		t.Errorf("expected max search results 50, got %d", cfg.MaxSearchResults)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database url, got %q", cfg.DatabaseURL)
	}
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("expected error to name DATABASE_URL, got %v", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	if !errors.Is(err, commonerrors.ErrInvalidJWTSecret) {
		t.Fatalf("expected ErrInvalidJWTSecret, got %v", err)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	if !errors.Is(err, commonerrors.ErrUnknownStorageDriver) {
		t.Fatalf("expected ErrUnknownStorageDriver, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("POSTS_PER_PAGE", "10")
	t.Setenv("FOLLOWERS_PER_PAGE", "-4")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.PostsPerPage != 10 {
		t.Errorf("expected posts per page 10, got %d", cfg.PostsPerPage)
	}
	if cfg.FollowersPerPage != 3 {
		t.Errorf("expected invalid override to fall back to 3, got %d", cfg.FollowersPerPage)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("expected request timeout 2s, got %v", cfg.RequestTimeout)
	}
}
