package constants

import "time"

const (
	HandleMinLength   = 2
	HandleMaxLength   = 64
	EmailMaxLength    = 120
	PasswordMinLength = 8
	PasswordMaxLength = 72
	BioMaxLength      = 140
	PostBodyMaxLength = 280

	JWTSecretMinLength = 32
	BcryptCost         = 12

	DefaultPostsPerPage     = 3
	DefaultFollowersPerPage = 3
	MaxPageSize             = 100
	DefaultMaxSearchResults = 50
	MaxSearchQueryLength    = 100

	DefaultMaxRequestSize = 1 << 20

	AvatarBaseURL     = "http://www.gravatar.com/avatar/"
	DefaultAvatarSize = 128

	LastSeenQueueSize     = 100
	LastSeenBatchSize     = 100
	LastSeenFlushEvery    = 500 * time.Millisecond
	LastSeenUpdateTimeout = 3 * time.Second

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second
	SQLiteBusyTimeout     = 5 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	ServerWriteSlack        = time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort           = "8080"
	DefaultStorageDriver      = "postgres"
	DefaultSQLitePath         = "microblog.db"
	DefaultRequestTimeout     = 5 * time.Second
	DefaultSearchTimeout      = 10 * time.Second
	DefaultAccessTokenTTL     = 24 * time.Hour
	DefaultLastSeenInterval   = time.Minute
	RateLimitCleanupInterval  = 5 * time.Minute
	RateLimitAuthPerSecond    = 0.2
	RateLimitAuthBurst        = 5
	RateLimitWritePerSecond   = 1.0
	RateLimitWriteBurst       = 10
	RateLimitGeneralPerSecond = 20.0
	RateLimitGeneralBurst     = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
	DefaultLogDir    = "/var/log/microblog"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
