package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
)

var ErrInvalidReview = commonerrors.ErrInvalidReview

type ID string

// Review is keyed by (BookID, AuthorID); at most one exists per pair.
// AuthorID is the user id of the author, kept as an opaque string so
// review storage does not depend on user storage.
type Review struct {
	ID        ID
	BookID    string
	AuthorID  string
	Rating    int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReviewWithAuthor struct {
	Review
	AuthorUsername string
}

// Validate checks a submission before it reaches storage. The reviews
// table repeats the rating and content checks.
func Validate(bookID string, rating int, content string) error {
	switch {
	case strings.TrimSpace(bookID) == "":
		return ErrInvalidReview.WithMessage("bookId is required")
	case utf8.RuneCountInString(bookID) > constants.BookIDMaxLength:
		return ErrInvalidReview.WithMessage(fmt.Sprintf("bookId must be at most %d characters", constants.BookIDMaxLength))
	case rating < constants.ReviewRatingMin || rating > constants.ReviewRatingMax:
		return ErrInvalidReview.WithMessage(fmt.Sprintf("rating must be between %d and %d", constants.ReviewRatingMin, constants.ReviewRatingMax))
	case strings.TrimSpace(content) == "":
		return ErrInvalidReview.WithMessage("content must not be empty")
	case utf8.RuneCountInString(content) > constants.ReviewContentMax:
		return ErrInvalidReview.WithMessage(fmt.Sprintf("content must be at most %d characters", constants.ReviewContentMax))
	}
	return nil
}
