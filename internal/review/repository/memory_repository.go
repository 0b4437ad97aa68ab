package repository

import (
	"context"
	"sync"

	"github.com/AlibekovAA/book-reviews/internal/review/domain"
)

type reviewKey struct {
	bookID   string
	authorID string
}

// MemoryRepository mirrors the reviews table: one entry per
// (bookID, authorID), listed in first-insert order.
type MemoryRepository struct {
	mu     sync.RWMutex
	byKey  map[reviewKey]domain.Review
	byBook map[string][]reviewKey
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byKey:  make(map[reviewKey]domain.Review),
		byBook: make(map[string][]reviewKey),
	}
}

func (r *MemoryRepository) Upsert(ctx context.Context, review domain.Review) (domain.Review, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, false, err
	}

	key := reviewKey{bookID: review.BookID, authorID: review.AuthorID}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byKey[key]
	if !ok {
		r.byKey[key] = review
		r.byBook[review.BookID] = append(r.byBook[review.BookID], key)
		return review, true, nil
	}

	existing.Rating = review.Rating
	existing.Content = review.Content
	existing.UpdatedAt = review.UpdatedAt
	r.byKey[key] = existing
	return existing, false, nil
}

func (r *MemoryRepository) ListByBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.byBook[bookID]
	reviews := make([]domain.Review, 0, len(keys))
	for _, key := range keys {
		reviews = append(reviews, r.byKey[key])
	}
	return reviews, nil
}
