package constants

import "time"

const (
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32
	ReviewRatingMin    = 1
	ReviewRatingMax    = 5
	ReviewContentMax   = 10000
	BookIDMaxLength    = 128

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerMaxHeaderBytes    = 1 << 16

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "5000"
	DefaultRequestTimeout = 5 * time.Second
	DefaultTokenTTL       = 24 * time.Hour
	DefaultBcryptCost     = 12

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
