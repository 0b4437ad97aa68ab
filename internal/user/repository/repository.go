package repository

import (
	"context"

	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/user/domain"
)

var (
	ErrUserNotFound       = commonerrors.ErrUserNotFound
	ErrEmailAlreadyExists = commonerrors.ErrEmailAlreadyExists
)

// Repository is the credential store. Email uniqueness is enforced by the
// store itself; callers never check before writing.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error)
	FindUsernames(ctx context.Context, ids []domain.ID) (map[domain.ID]string, error)
}
