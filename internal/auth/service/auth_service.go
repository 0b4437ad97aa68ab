package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/book-reviews/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
	userrepo "github.com/AlibekovAA/book-reviews/internal/user/repository"
)

var (
	ErrEmailAlreadyExists = commonerrors.ErrEmailAlreadyExists
	ErrInvalidCredentials = commonerrors.ErrInvalidCredentials
)

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      TokenIssuer
	clock       clock.Clock
	log         *logger.Logger

	// timingPad is a real digest compared against when the email is unknown.
	timingPad string
}

const timingPadPassword = "book-reviews-timing-pad"

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	tokens TokenIssuer,
	clock clock.Clock,
	log *logger.Logger,
) (*AuthService, error) {
	pad, err := hasher.Hash(timingPadPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login timing pad: %w", err)
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		clock:       clock,
		log:         log,
		timingPad:   pad,
	}, nil
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Signup stores a new account. A taken email is reported by the store
// itself, so two concurrent signups cannot both succeed.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (userdomain.Profile, error) {
	email := userdomain.NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "signup_attempt",
	}).Info("signup attempt")

	// bcrypt input is capped in bytes, request validation counts runes.
	if len(input.Password) > constants.PasswordMaxLength {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return userdomain.Profile{}, commonerrors.ErrValidation.WithMessage("password must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return userdomain.Profile{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "signup_id_generation_failed",
		}).Errorf("signup failed: id generation error: %v", err)
		return userdomain.Profile{}, err
	}

	now := s.clock.Now()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "signup_email_exists",
			}).Warn("signup failed: email already exists")
			return userdomain.Profile{}, ErrEmailAlreadyExists
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return userdomain.Profile{}, err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "signup_success",
	}).Info("signup success")

	return user.Profile(), nil
}

// Login returns the same ErrInvalidCredentials for an unknown email and a
// wrong password, and spends a hash comparison in both cases.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := userdomain.NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_, _ = s.hasher.Verify(input.Password, s.timingPad)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_user_not_found",
			}).Warn("login failed: invalid credentials")
			return LoginResult{}, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, err
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_digest_corrupt",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid credentials")
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(string(user.ID))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}
