package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/microblog/internal/common/constants"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort         string
	StorageDriver    string
	DatabaseURL      string
	SQLitePath       string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	PostsPerPage     int
	FollowersPerPage int
	MaxSearchResults int
	RequestTimeout   time.Duration
	SearchTimeout    time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	LastSeenInterval time.Duration
	LogDir           string
	LogLevel         string
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	driver := strings.ToLower(getEnv("STORAGE_DRIVER", constants.DefaultStorageDriver))

	cfg := Config{
		HTTPPort:         getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		StorageDriver:    driver,
		SQLitePath:       getEnv("SQLITE_PATH", constants.DefaultSQLitePath),
		JWTSecret:        jwtSecret,
		AccessTokenTTL:   getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		PostsPerPage:     getPositiveIntEnv("POSTS_PER_PAGE", constants.DefaultPostsPerPage),
		FollowersPerPage: getPositiveIntEnv("FOLLOWERS_PER_PAGE", constants.DefaultFollowersPerPage),
		MaxSearchResults: getPositiveIntEnv("MAX_SEARCH_RESULTS", constants.DefaultMaxSearchResults),
		RequestTimeout:   getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		SearchTimeout:    getDurationEnv("SEARCH_TIMEOUT", constants.DefaultSearchTimeout),
		ReadTimeout:      getDurationEnv("HTTP_READ_TIMEOUT", constants.DefaultReadTimeout),
		WriteTimeout:     getDurationEnv("HTTP_WRITE_TIMEOUT", constants.DefaultWriteTimeout),
		IdleTimeout:      getDurationEnv("HTTP_IDLE_TIMEOUT", constants.DefaultIdleTimeout),
		LastSeenInterval: getDurationEnv("LAST_SEEN_INTERVAL", constants.DefaultLastSeenInterval),
		LogDir:           os.Getenv("LOG_DIR"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	switch driver {
	case DriverPostgres:
		cfg.DatabaseURL, err = mustEnv("DATABASE_URL")
		if err != nil {
			return Config{}, err
		}
	case DriverSQLite:
	default:
		return Config{}, commonerrors.ErrUnknownStorageDriver.WithMessage(fmt.Sprintf("unknown storage driver %q", driver))
	}

	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithMessage("missing required environment variable: " + key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getPositiveIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return fallback
	}
	return i
}
