package repository

import (
	"context"

	"github.com/AlibekovAA/book-reviews/internal/review/domain"
)

type Repository interface {
	// Upsert stores the review for (BookID, AuthorID) in one atomic step.
	// An existing row keeps its id and createdAt and takes the new rating,
	// content and updatedAt. created is true when no row existed.
	Upsert(ctx context.Context, review domain.Review) (stored domain.Review, created bool, err error)
	// ListByBook returns reviews in insertion order; empty, not nil-error,
	// when there are none.
	ListByBook(ctx context.Context, bookID string) ([]domain.Review, error)
}
