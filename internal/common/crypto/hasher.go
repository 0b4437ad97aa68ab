package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
)

const maxPasswordBytes = 72

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports a mismatch as (false, nil); only an unparseable digest is an error.
// Passwords past bcrypt's 72-byte input limit never match, but still pay for
// a full comparison.
func (h *BcryptHasher) Verify(password string, hash string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return false, commonerrors.ErrCorruptDigest.WithCause(err)
	}

	overlong := len(password) > maxPasswordBytes
	if overlong {
		password = password[:maxPasswordBytes]
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return !overlong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, commonerrors.ErrCorruptDigest.WithCause(err)
	}
}
