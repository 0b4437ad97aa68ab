package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/user/domain"
	"github.com/AlibekovAA/book-reviews/internal/user/repository"
)

var created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*ProfileService, *repository.MemoryRepository, *clock.MockClock) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	for _, u := range []domain.User{
		{ID: "alice", Username: "alice", Email: "a@x.com", PasswordHash: "h1", CreatedAt: created, UpdatedAt: created},
		{ID: "bob", Username: "bob", Email: "b@x.com", PasswordHash: "h2", CreatedAt: created, UpdatedAt: created},
	} {
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
	c := clock.NewMockClock(created.Add(time.Hour))
	return NewProfileService(repo, c, logger.NewWithWriter(io.Discard, "test", "error")), repo, c
}

func ptr(s string) *string { return &s }

func TestGet(t *testing.T) {
	svc, _, _ := setup(t)

	p, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Username != "alice" || p.Email != "a@x.com" {
		t.Errorf("profile = %+v", p)
	}

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdate_OnlyTouchesCaller(t *testing.T) {
	svc, repo, c := setup(t)

	p, err := svc.Update(context.Background(), "alice", domain.ProfileUpdate{Username: ptr(" Alice Liddell ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Username != "Alice Liddell" || p.Email != "a@x.com" {
		t.Errorf("profile = %+v", p)
	}
	if !p.UpdatedAt.Equal(c.Now()) || !p.CreatedAt.Equal(created) {
		t.Errorf("timestamps = %v / %v", p.CreatedAt, p.UpdatedAt)
	}

	bob, _ := repo.FindByID(context.Background(), "bob")
	if bob.Username != "bob" || !bob.UpdatedAt.Equal(created) {
		t.Errorf("other user changed: %+v", bob)
	}

	stored, _ := repo.FindByID(context.Background(), "alice")
	if stored.PasswordHash != "h1" {
		t.Error("password hash must be untouched")
	}
}

func TestUpdate_EmailTaken(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Update(context.Background(), "alice", domain.ProfileUpdate{Email: ptr("B@X.com")})
	if !errors.Is(err, repository.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUpdate_EmptyIsNoop(t *testing.T) {
	svc, _, _ := setup(t)

	p, err := svc.Update(context.Background(), "alice", domain.ProfileUpdate{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !p.UpdatedAt.Equal(created) {
		t.Errorf("empty update must not bump updatedAt, got %v", p.UpdatedAt)
	}
}

func TestUpdate_VanishedCaller(t *testing.T) {
	svc, _, _ := setup(t)

	if _, err := svc.Update(context.Background(), "ghost", domain.ProfileUpdate{Username: ptr("x")}); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
