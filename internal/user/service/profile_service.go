package service

import (
	"context"
	"strings"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
	"github.com/AlibekovAA/book-reviews/internal/user/domain"
	"github.com/AlibekovAA/book-reviews/internal/user/repository"
)

type ProfileService struct {
	repo  repository.Repository
	clock clock.Clock
	log   *logger.Logger
}

func NewProfileService(repo repository.Repository, clock clock.Clock, log *logger.Logger) *ProfileService {
	return &ProfileService{repo: repo, clock: clock, log: log}
}

// Get returns the caller's own profile. callerID must come from the
// authenticated identity, never from request input.
func (s *ProfileService) Get(ctx context.Context, callerID domain.ID) (domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(callerID),
			"action":  "profile_get_failed",
		}).Warnf("profile lookup failed: %v", err)
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// Update changes only username and email on the caller's own record.
func (s *ProfileService) Update(ctx context.Context, callerID domain.ID, update domain.ProfileUpdate) (domain.Profile, error) {
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		update.Username = &trimmed
	}
	if update.Email != nil {
		normalized := domain.NormalizeEmail(*update.Email)
		update.Email = &normalized
	}

	if update.IsEmpty() {
		return s.Get(ctx, callerID)
	}

	update.UpdatedAt = s.clock.Now()

	user, err := s.repo.UpdateProfile(ctx, callerID, update)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(callerID),
			"action":  "profile_update_failed",
		}).Warnf("profile update failed: %v", err)
		return domain.Profile{}, err
	}

	metrics.ProfileUpdatesTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(callerID),
		"action":  "profile_updated",
	}).Info("profile updated")

	return user.Profile(), nil
}
