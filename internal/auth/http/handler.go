package http

import (
	"context"
	"net/http"

	"github.com/AlibekovAA/book-reviews/internal/auth/service"
	commonhttp "github.com/AlibekovAA/book-reviews/internal/common/http"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type Authenticator interface {
	Signup(ctx context.Context, input service.SignupInput) (userdomain.Profile, error)
	Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
}

type Handler struct {
	auth      Authenticator
	validator *commonhttp.Validator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(auth Authenticator, validator *commonhttp.Validator, log *logger.Logger) *Handler {
	return &Handler{
		auth:      auth,
		validator: validator,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.signup)
	mux.HandleFunc("POST /auth/login", h.login)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	_, err := h.auth.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}
