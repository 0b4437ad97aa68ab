package http

import (
	"context"
	"net/http"

	"github.com/AlibekovAA/book-reviews/internal/common/authn"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	commonhttp "github.com/AlibekovAA/book-reviews/internal/common/http"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/common/mapper"
	"github.com/AlibekovAA/book-reviews/internal/user/domain"
)

// updateProfileRequest lists the only mutable fields. Anything else in
// the body, including id or password, is dropped by the decoder.
type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,notblank,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
}

type ProfileManager interface {
	Get(ctx context.Context, callerID domain.ID) (domain.Profile, error)
	Update(ctx context.Context, callerID domain.ID, update domain.ProfileUpdate) (domain.Profile, error)
}

type Handler struct {
	profiles  ProfileManager
	validator *commonhttp.Validator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(profiles ProfileManager, validator *commonhttp.Validator, log *logger.Logger) *Handler {
	return &Handler{
		profiles:  profiles,
		validator: validator,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, authenticate authn.Authenticator) {
	require := authn.Require(authenticate, h.log)
	mux.Handle("GET /auth/profile", require(http.HandlerFunc(h.get)))
	mux.Handle("PUT /auth/profile", require(http.HandlerFunc(h.update)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authn.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthenticated)
		return
	}

	profile, err := h.profiles.Get(r.Context(), domain.ID(identity.UserID))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.ProfileToDTO(profile))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authn.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthenticated)
		return
	}

	var req updateProfileRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	profile, err := h.profiles.Update(r.Context(), domain.ID(identity.UserID), domain.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.ProfileToDTO(profile))
}
