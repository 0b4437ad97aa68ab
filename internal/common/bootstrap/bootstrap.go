package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/book-reviews/internal/auth/http"
	authservice "github.com/AlibekovAA/book-reviews/internal/auth/service"
	"github.com/AlibekovAA/book-reviews/internal/common/authn"
	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	"github.com/AlibekovAA/book-reviews/internal/common/config"
	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/book-reviews/internal/common/crypto"
	"github.com/AlibekovAA/book-reviews/internal/common/db"
	commonhttp "github.com/AlibekovAA/book-reviews/internal/common/http"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/common/resilience"
	"github.com/AlibekovAA/book-reviews/internal/common/server"
	"github.com/AlibekovAA/book-reviews/internal/common/token"
	reviewhttp "github.com/AlibekovAA/book-reviews/internal/review/http"
	reviewrepo "github.com/AlibekovAA/book-reviews/internal/review/repository"
	reviewservice "github.com/AlibekovAA/book-reviews/internal/review/service"
	userhttp "github.com/AlibekovAA/book-reviews/internal/user/http"
	userrepo "github.com/AlibekovAA/book-reviews/internal/user/repository"
	userservice "github.com/AlibekovAA/book-reviews/internal/user/service"
)

const serviceName = "book-reviews"

type App struct {
	Config  config.Config
	Log     *logger.Logger
	Pool    *pgxpool.Pool
	Handler http.Handler

	UserRepo   userrepo.Repository
	ReviewRepo reviewrepo.Repository

	Auth     *authservice.AuthService
	Profiles *userservice.ProfileService
	Reviews  *reviewservice.ReviewService

	stopMetrics context.CancelFunc
}

// NewLogger builds the process logger from LOG_DIR and LOG_LEVEL.
func NewLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
}

func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	switch cfg.StorageDriver {
	case constants.StorageDriverMemory:
		log.Warnf("using in-memory storage, data is lost on restart")
		app.UserRepo = userrepo.NewMemoryRepository()
		app.ReviewRepo = reviewrepo.NewMemoryRepository()
	case constants.StorageDriverPostgres:
		if err := app.initPostgres(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, config.ErrInvalidStorageDriver.WithCause(fmt.Errorf("got %q", cfg.StorageDriver))
	}

	realClock := clock.NewRealClock()
	ids := commoncrypto.NewUUIDGenerator()
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL, ids, realClock)

	auth, err := authservice.NewAuthService(app.UserRepo, commoncrypto.NewBcryptHasher(cfg.BcryptCost), ids, tokens, realClock, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Auth = auth
	app.Profiles = userservice.NewProfileService(app.UserRepo, realClock, log)
	app.Reviews = reviewservice.NewReviewService(app.ReviewRepo, app.UserRepo, ids, realClock, log)

	validator := commonhttp.NewValidator()
	authenticate := authn.BearerAuthenticator(tokens)

	mux := http.NewServeMux()
	authhttp.NewHandler(app.Auth, validator, log).Register(mux)
	userhttp.NewHandler(app.Profiles, validator, log).Register(mux, authenticate)
	reviewhttp.NewHandler(app.Reviews, log).Register(mux, authenticate)

	var pinger commonhttp.Pinger
	if app.Pool != nil {
		pinger = app.Pool
	}
	mux.Handle("GET /health", commonhttp.HealthHandler(log, pinger))
	mux.Handle("GET /metrics", promhttp.Handler())

	app.Handler = commonhttp.BuildBaseHandler(log, commonhttp.EnvelopeUnmatched(mux), commonhttp.BaseOptions{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	return app, nil
}

func (a *App) initPostgres(ctx context.Context) error {
	if a.Config.AutoMigrate {
		if err := db.Migrate(ctx, a.Log, a.Config.DatabaseURL); err != nil {
			return err
		}
	}

	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return err
	}
	a.Pool = pool

	metricsCtx, cancel := context.WithCancel(context.Background())
	a.stopMetrics = cancel
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  a.Config.CircuitBreakerThreshold,
		Timeout:    a.Config.CircuitBreakerTimeout,
		ResetAfter: a.Config.CircuitBreakerReset,
		Name:       "postgres",
		Logger:     a.Log,
	})

	a.UserRepo = userrepo.NewPgRepository(pool, breaker, a.Log)
	a.ReviewRepo = reviewrepo.NewPgRepository(pool, breaker, a.Log)
	return nil
}

// ShutdownHooks release storage after the HTTP server has drained.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	return []server.ShutdownHook{
		func(context.Context) error {
			a.Close()
			return nil
		},
	}
}

func (a *App) Close() {
	if a.stopMetrics != nil {
		a.stopMetrics()
		a.stopMetrics = nil
	}
	if a.Pool != nil {
		a.Pool.Close()
		a.Pool = nil
		a.Log.Infof("database connection pool closed")
	}
}
