package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/common/httpmetrics"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, context.DeadlineExceeded) && !commonerrors.IsDomainError(err) {
		err = commonerrors.ErrRequestTimeout.WithCause(err)
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error on %s %s", r.Method, r.URL.Path)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	status := domainErr.HTTPStatus()
	code := domainErr.Code()
	message := domainErr.Message()

	logFields := logger.Fields{
		"error_code": code,
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	// Internal faults are reported with a generic body; the cause stays in the log.
	if domainErr.Category() == commonerrors.CategoryInternal {
		h.log.WithFields(ctx, logFields).Errorf("internal error: %v", domainErr)
		code = CodeInternal
		message = "internal server error"
		status = http.StatusInternalServerError
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %v", domainErr)
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, code, message, traceID)
}
