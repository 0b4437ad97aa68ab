package repository

import (
	"context"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/db"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/common/resilience"
	"github.com/AlibekovAA/book-reviews/internal/review/domain"
)

const reviewColumns = `id, book_id, author_id, rating, content, created_at, updated_at`

// xmax is 0 only on a freshly inserted tuple, which tells the two
// upsert branches apart without a second query.
const upsertReviewSQL = `INSERT INTO reviews (` + reviewColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (book_id, author_id) DO UPDATE
SET rating = EXCLUDED.rating,
    content = EXCLUDED.content,
    updated_at = EXCLUDED.updated_at
RETURNING ` + reviewColumns + `, (xmax = 0) AS inserted`

const listReviewsSQL = `SELECT ` + reviewColumns + `
FROM reviews
WHERE book_id = $1
ORDER BY seq ASC`

type PgRepository struct {
	db  db.Querier
	cb  *resilience.CircuitBreaker
	log *logger.Logger
}

func NewPgRepository(q db.Querier, cb *resilience.CircuitBreaker, log *logger.Logger) *PgRepository {
	return &PgRepository{db: q, cb: cb, log: log}
}

func (r *PgRepository) Upsert(ctx context.Context, review domain.Review) (domain.Review, bool, error) {
	var (
		stored  domain.Review
		created bool
	)

	err := r.cb.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, r.log, "upsert_review", db.DefaultRetryConfig, func(ctx context.Context) error {
			start := time.Now()
			row := r.db.QueryRow(ctx, upsertReviewSQL,
				string(review.ID),
				review.BookID,
				review.AuthorID,
				review.Rating,
				review.Content,
				review.CreatedAt,
				review.UpdatedAt,
			)

			var id string
			err := row.Scan(&id, &stored.BookID, &stored.AuthorID, &stored.Rating, &stored.Content,
				&stored.CreatedAt, &stored.UpdatedAt, &created)
			if err != nil {
				return db.HandleQueryError(err, nil, "upsert_review", db.TableReviews, start)
			}
			stored.ID = domain.ID(id)
			db.MeasureQueryDuration("upsert_review", db.TableReviews, start)
			return nil
		})
	})
	if err != nil {
		return domain.Review{}, false, err
	}
	return stored, created, nil
}

func (r *PgRepository) ListByBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	var reviews []domain.Review

	err := r.cb.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, r.log, "list_reviews", db.DefaultRetryConfig, func(ctx context.Context) error {
			start := time.Now()
			rows, err := r.db.Query(ctx, listReviewsSQL, bookID)
			if err != nil {
				return db.HandleQueryError(err, nil, "list_reviews", db.TableReviews, start)
			}
			defer rows.Close()

			reviews = reviews[:0]
			for rows.Next() {
				var (
					rv domain.Review
					id string
				)
				if err := rows.Scan(&id, &rv.BookID, &rv.AuthorID, &rv.Rating, &rv.Content, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
					return db.HandleQueryError(err, nil, "list_reviews", db.TableReviews, start)
				}
				rv.ID = domain.ID(id)
				reviews = append(reviews, rv)
			}
			return db.HandleQueryError(rows.Err(), nil, "list_reviews", db.TableReviews, start)
		})
	})
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
