package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/authn"
	"github.com/AlibekovAA/book-reviews/internal/common/dto"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	commonhttp "github.com/AlibekovAA/book-reviews/internal/common/http"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/common/mapper"
	"github.com/AlibekovAA/book-reviews/internal/review/domain"
	"github.com/AlibekovAA/book-reviews/internal/review/service"
	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

// Range and emptiness are checked by the ledger so they surface as
// INVALID_REVIEW rather than a generic validation failure.
type submitReviewRequest struct {
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type reviewResponse struct {
	ID        string     `json:"id"`
	BookID    string     `json:"bookId"`
	Rating    int        `json:"rating"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    dto.Author `json:"author"`
}

type Ledger interface {
	Submit(ctx context.Context, authorID string, input service.SubmitInput) (domain.ReviewWithAuthor, bool, error)
	ListForBook(ctx context.Context, bookID string) ([]domain.ReviewWithAuthor, error)
}

type Handler struct {
	ledger Ledger
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(ledger Ledger, log *logger.Logger) *Handler {
	return &Handler{
		ledger: ledger,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, authenticate authn.Authenticator) {
	mux.Handle("POST /reviews", authn.Require(authenticate, h.log)(http.HandlerFunc(h.submit)))
	mux.HandleFunc("GET /reviews/{bookId}", h.list)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := authn.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthenticated)
		return
	}

	var req submitReviewRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	review, created, err := h.ledger.Submit(r.Context(), identity.UserID, service.SubmitInput{
		BookID:  req.BookID,
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	commonhttp.WriteJSON(w, status, toResponse(review))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.ledger.ListForBook(r.Context(), r.PathValue("bookId"))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toResponse(rv))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func toResponse(rv domain.ReviewWithAuthor) reviewResponse {
	return reviewResponse{
		ID:        string(rv.ID),
		BookID:    rv.BookID,
		Rating:    rv.Rating,
		Content:   rv.Content,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
		Author:    mapper.AuthorToDTO(userdomain.ID(rv.AuthorID), rv.AuthorUsername),
	}
}
