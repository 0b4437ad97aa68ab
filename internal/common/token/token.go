package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/book-reviews/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

var (
	ErrInvalidToken = commonerrors.ErrInvalidToken
	ErrExpiredToken = commonerrors.ErrExpiredToken
)

// Service issues and validates HS256 bearer tokens. Tokens carry the user
// id in sub and stay valid until exp; there is no server-side revocation.
type Service struct {
	secret      []byte
	ttl         time.Duration
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewService(secret string, ttl time.Duration, idGenerator commoncrypto.IDGenerator, c clock.Clock) *Service {
	return &Service{
		secret:      []byte(secret),
		ttl:         ttl,
		idGenerator: idGenerator,
		clock:       c,
	}
}

func (s *Service) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("cannot issue token without subject")
	}

	jti, err := s.idGenerator.NewID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.AccessTokensIssued.Inc()
	return signed, expiresAt, nil
}

func (s *Service) Validate(tokenString string) (string, error) {
	metrics.JWTValidationsTotal.Inc()

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.JWTValidationsFailed.WithLabelValues("expired").Inc()
			return "", ErrExpiredToken.WithCause(err)
		}
		metrics.JWTValidationsFailed.WithLabelValues(failureReason(err)).Inc()
		return "", ErrInvalidToken.WithCause(err)
	}

	if claims.Subject == "" {
		metrics.JWTValidationsFailed.WithLabelValues("missing_subject").Inc()
		return "", ErrInvalidToken.WithMessage("token has no subject")
	}

	return claims.Subject, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing_claim"
	default:
		return "invalid"
	}
}
