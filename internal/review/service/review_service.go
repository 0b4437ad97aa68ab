package service

import (
	"context"
	"strings"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/book-reviews/internal/common/crypto"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
	"github.com/AlibekovAA/book-reviews/internal/review/domain"
	"github.com/AlibekovAA/book-reviews/internal/review/repository"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

// UsernameResolver supplies author display names at read time.
type UsernameResolver interface {
	FindUsernames(ctx context.Context, ids []userdomain.ID) (map[userdomain.ID]string, error)
}

type ReviewService struct {
	repo        repository.Repository
	users       UsernameResolver
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewReviewService(
	repo repository.Repository,
	users UsernameResolver,
	idGenerator commoncrypto.IDGenerator,
	clock clock.Clock,
	log *logger.Logger,
) *ReviewService {
	return &ReviewService{
		repo:        repo,
		users:       users,
		idGenerator: idGenerator,
		clock:       clock,
		log:         log,
	}
}

type SubmitInput struct {
	BookID  string
	Rating  int
	Content string
}

// Submit creates the author's review for the book, or replaces rating and
// content of the existing one. The store decides which in a single
// conditional write, so concurrent first submissions leave one row.
func (s *ReviewService) Submit(ctx context.Context, authorID string, input SubmitInput) (domain.ReviewWithAuthor, bool, error) {
	bookID := strings.TrimSpace(input.BookID)

	if err := domain.Validate(bookID, input.Rating, input.Content); err != nil {
		metrics.ReviewSubmissionsTotal.WithLabelValues("invalid").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": authorID,
			"book_id": bookID,
			"action":  "review_validation_failed",
		}).Warnf("review rejected: %v", err)
		return domain.ReviewWithAuthor{}, false, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		metrics.ReviewSubmissionsTotal.WithLabelValues("failed").Inc()
		return domain.ReviewWithAuthor{}, false, err
	}

	now := s.clock.Now()
	stored, created, err := s.repo.Upsert(ctx, domain.Review{
		ID:        domain.ID(id),
		BookID:    bookID,
		AuthorID:  authorID,
		Rating:    input.Rating,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		metrics.ReviewSubmissionsTotal.WithLabelValues("failed").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": authorID,
			"book_id": bookID,
			"action":  "review_upsert_failed",
		}).Errorf("review upsert failed: %v", err)
		return domain.ReviewWithAuthor{}, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.ReviewSubmissionsTotal.WithLabelValues(outcome).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":   authorID,
		"book_id":   bookID,
		"review_id": string(stored.ID),
		"action":    "review_upsert_" + outcome,
	}).Info("review stored")

	// The write is already committed; a failed name lookup only costs the
	// username in the response.
	enriched, err := s.withAuthors(ctx, []domain.Review{stored})
	if err != nil {
		return domain.ReviewWithAuthor{Review: stored}, created, nil
	}
	return enriched[0], created, nil
}

// ListForBook returns the book's reviews in insertion order with author
// usernames attached. A book with no reviews yields an empty slice.
func (s *ReviewService) ListForBook(ctx context.Context, bookID string) ([]domain.ReviewWithAuthor, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, domain.ErrInvalidReview.WithMessage("bookId is required")
	}

	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"book_id": bookID,
			"action":  "review_list_failed",
		}).Errorf("review list failed: %v", err)
		return nil, err
	}

	enriched, err := s.withAuthors(ctx, reviews)
	if err != nil {
		return nil, err
	}

	metrics.ReviewListSize.Observe(float64(len(enriched)))
	return enriched, nil
}

// withAuthors is the read-side join. Authors that no longer resolve keep
// their review with an empty username.
func (s *ReviewService) withAuthors(ctx context.Context, reviews []domain.Review) ([]domain.ReviewWithAuthor, error) {
	result := make([]domain.ReviewWithAuthor, 0, len(reviews))
	if len(reviews) == 0 {
		return result, nil
	}

	seen := make(map[string]struct{}, len(reviews))
	ids := make([]userdomain.ID, 0, len(reviews))
	for _, rv := range reviews {
		if _, dup := seen[rv.AuthorID]; dup {
			continue
		}
		seen[rv.AuthorID] = struct{}{}
		ids = append(ids, userdomain.ID(rv.AuthorID))
	}

	names, err := s.users.FindUsernames(ctx, ids)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"authors": len(ids),
			"action":  "review_author_lookup_failed",
		}).Errorf("author lookup failed: %v", err)
		return nil, err
	}

	for _, rv := range reviews {
		result = append(result, domain.ReviewWithAuthor{
			Review:         rv,
			AuthorUsername: names[userdomain.ID(rv.AuthorID)],
		})
	}
	return result, nil
}
