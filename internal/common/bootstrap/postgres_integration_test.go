//go:build integration

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	authservice "github.com/AlibekovAA/book-reviews/internal/auth/service"
	"github.com/AlibekovAA/book-reviews/internal/common/config"
	"github.com/AlibekovAA/book-reviews/internal/common/db"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	reviewservice "github.com/AlibekovAA/book-reviews/internal/review/service"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

func TestPostgresApp(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("books"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	defer func() { _ = pgContainer.Terminate(ctx) }()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := logger.NewWithWriter(io.Discard, "test", "error")
	cfg := config.Config{
		StorageDriver:           "postgres",
		DatabaseURL:             connStr,
		JWTSecret:               "0123456789abcdef0123456789abcdef",
		TokenTTL:                time.Hour,
		BcryptCost:              4,
		RequestTimeout:          5 * time.Second,
		AutoMigrate:             true,
		CircuitBreakerThreshold: 50,
		CircuitBreakerTimeout:   5 * time.Second,
		CircuitBreakerReset:     10 * time.Second,
	}

	app, err := New(ctx, cfg, log)
	require.NoError(t, err)
	defer app.Close()

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, db.Migrate(ctx, log, connStr))
	})

	t.Run("concurrent signup with one email yields one account", func(t *testing.T) {
		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := app.Auth.Signup(ctx, authservice.SignupInput{
					Username: fmt.Sprintf("racer%d", i),
					Email:    "Race@Example.com",
					Password: "secret1",
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, commonerrors.ErrEmailAlreadyExists):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, attempts-1, conflicts)

		_, err := app.Auth.Login(ctx, authservice.LoginInput{Email: "race@example.com", Password: "secret1"})
		assert.NoError(t, err)
	})

	t.Run("profile update keeps email unique", func(t *testing.T) {
		first, err := app.Auth.Signup(ctx, authservice.SignupInput{Username: "first", Email: "first@example.com", Password: "secret1"})
		require.NoError(t, err)
		second, err := app.Auth.Signup(ctx, authservice.SignupInput{Username: "second", Email: "second@example.com", Password: "secret1"})
		require.NoError(t, err)

		taken := "FIRST@example.com"
		_, err = app.Profiles.Update(ctx, second.ID, userdomain.ProfileUpdate{Email: &taken})
		assert.ErrorIs(t, err, commonerrors.ErrEmailAlreadyExists)

		name := "renamed"
		updated, err := app.Profiles.Update(ctx, first.ID, userdomain.ProfileUpdate{Username: &name})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Username)
		assert.Equal(t, "first@example.com", updated.Email)
	})

	t.Run("concurrent submits leave one review per author and book", func(t *testing.T) {
		author, err := app.Auth.Signup(ctx, authservice.SignupInput{Username: "critic", Email: "critic@example.com", Password: "secret1"})
		require.NoError(t, err)

		const attempts = 10
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, wasCreated, err := app.Reviews.Submit(ctx, string(author.ID), reviewservice.SubmitInput{
					BookID:  "book-race",
					Rating:  i%5 + 1,
					Content: fmt.Sprintf("take %d", i),
				})
				if err != nil {
					t.Errorf("submit %d: %v", i, err)
					return
				}
				if wasCreated {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, created, "exactly one submit should report creation")

		list, err := app.Reviews.ListForBook(ctx, "book-race")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "critic", list[0].AuthorUsername)
	})

	t.Run("list keeps first submission order across updates", func(t *testing.T) {
		a, err := app.Auth.Signup(ctx, authservice.SignupInput{Username: "reader_a", Email: "a@example.com", Password: "secret1"})
		require.NoError(t, err)
		b, err := app.Auth.Signup(ctx, authservice.SignupInput{Username: "reader_b", Email: "b@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, _, err = app.Reviews.Submit(ctx, string(a.ID), reviewservice.SubmitInput{BookID: "book-order", Rating: 3, Content: "first"})
		require.NoError(t, err)
		_, _, err = app.Reviews.Submit(ctx, string(b.ID), reviewservice.SubmitInput{BookID: "book-order", Rating: 4, Content: "second"})
		require.NoError(t, err)
		_, created, err := app.Reviews.Submit(ctx, string(a.ID), reviewservice.SubmitInput{BookID: "book-order", Rating: 1, Content: "revised"})
		require.NoError(t, err)
		assert.False(t, created)

		list, err := app.Reviews.ListForBook(ctx, "book-order")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "revised", list[0].Content)
		assert.Equal(t, "reader_a", list[0].AuthorUsername)
		assert.Equal(t, "reader_b", list[1].AuthorUsername)

		empty, err := app.Reviews.ListForBook(ctx, "no-such-book")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("health pings the pool", func(t *testing.T) {
		require.NoError(t, app.Pool.Ping(ctx))
	})
}
