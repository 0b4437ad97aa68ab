package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
)

var (
	ErrMissingRequiredEnv   = commonerrors.ErrMissingRequiredEnv
	ErrInvalidJWTSecret     = commonerrors.ErrInvalidJWTSecret
	ErrInvalidStorageDriver = commonerrors.ErrInvalidStorageDriver
)

// Config is loaded once at startup and passed by value afterwards.
type Config struct {
	HTTPPort       string
	StorageDriver  string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
	AutoMigrate    bool
	AllowedOrigins []string

	LogDir   string
	LogLevel string

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", constants.StorageDriverPostgres)))
	if driver != constants.StorageDriverPostgres && driver != constants.StorageDriverMemory {
		return Config{}, ErrInvalidStorageDriver.WithCause(fmt.Errorf("got %q", driver))
	}

	var databaseURL string
	if driver == constants.StorageDriverPostgres {
		databaseURL, err = mustEnv("DATABASE_URL")
		if err != nil {
			return Config{}, err
		}
	}

	return Config{
		HTTPPort:                getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		StorageDriver:           driver,
		DatabaseURL:             databaseURL,
		JWTSecret:               jwtSecret,
		TokenTTL:                getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		BcryptCost:              clampBcryptCost(getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost)),
		RequestTimeout:          getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		AutoMigrate:             getBoolEnv("AUTO_MIGRATE", true),
		AllowedOrigins:          getListEnv("CORS_ALLOWED_ORIGINS"),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		CircuitBreakerThreshold: int32(getIntEnv("DB_CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("DB_CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("DB_CB_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

// LoadDatabaseURL is for commands that only talk to the database.
func LoadDatabaseURL() (string, error) {
	return mustEnv("DATABASE_URL")
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func clampBcryptCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getListEnv(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
