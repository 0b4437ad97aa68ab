package authn

import (
	"context"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	commonhttp "github.com/AlibekovAA/book-reviews/internal/common/http"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

// Identity is the caller resolved from a request's credentials.
type Identity struct {
	UserID string
}

// Authenticator turns credential evidence on a request into an identity.
// Any error means the request is unauthenticated.
type Authenticator func(r *http.Request) (Identity, error)

type TokenValidator interface {
	Validate(token string) (string, error)
}

type contextKey struct{}

const bearerPrefix = "Bearer "

// BearerAuthenticator reads "Authorization: Bearer <token>" and resolves
// the token subject. It never touches storage.
func BearerAuthenticator(validator TokenValidator) Authenticator {
	return func(r *http.Request) (Identity, error) {
		raw := r.Header.Get("Authorization")
		if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
			return Identity{}, commonerrors.ErrUnauthenticated.WithMessage("missing bearer token")
		}

		tokenString := strings.TrimSpace(raw[len(bearerPrefix):])
		if tokenString == "" {
			return Identity{}, commonerrors.ErrUnauthenticated.WithMessage("missing bearer token")
		}

		userID, err := validator.Validate(tokenString)
		if err != nil {
			return Identity{}, err
		}
		return Identity{UserID: userID}, nil
	}
}

// Require rejects requests the authenticator cannot resolve with 401 and
// stores the identity in the request context otherwise.
func Require(authenticate Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(r)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"reason": reason(err),
					"action": "auth_rejected",
				}).Warn("request authentication failed")
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthenticated,
					"authentication required", commonhttp.TraceIDFromContext(r.Context()))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok && identity.UserID != ""
}

func reason(err error) string {
	if de, ok := commonerrors.AsDomainError(err); ok {
		return de.Code()
	}
	return "unknown"
}
