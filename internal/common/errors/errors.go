package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	TraceID() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
	WithTraceID(traceID string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	traceID  string
	cause    error
	parent   *domainError
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) TraceID() string {
	return e.traceID
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is lets derived errors (WithCause, WithMessage, WithTraceID) match the
// sentinel they were built from.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur == t {
			return true
		}
	}
	return false
}

func (e *domainError) derive() *domainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		traceID:  e.traceID,
		cause:    e.cause,
		parent:   e,
	}
}

func (e *domainError) WithCause(cause error) DomainError {
	d := e.derive()
	d.cause = cause
	return d
}

func (e *domainError) WithMessage(message string) DomainError {
	d := e.derive()
	d.message = message
	return d
}

func (e *domainError) WithTraceID(traceID string) DomainError {
	d := e.derive()
	d.traceID = traceID
	return d
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrInvalidStorageDriver = NewDomainError(
		"INVALID_STORAGE_DRIVER",
		CategoryValidation,
		http.StatusInternalServerError,
		"STORAGE_DRIVER must be postgres or memory",
	)

	ErrEmailAlreadyExists = NewDomainError(
		"EMAIL_EXISTS",
		CategoryConflict,
		http.StatusBadRequest,
		"Email already exists",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryAuth,
		http.StatusUnauthorized,
		"Invalid email or password",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)

	ErrInvalidReview = NewDomainError(
		"INVALID_REVIEW",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid review",
	)

	ErrCircuitOpen = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrExpiredToken = NewDomainError(
		"EXPIRED_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token has expired",
	)

	ErrCorruptDigest = NewDomainError(
		"CORRUPT_DIGEST",
		CategoryInternal,
		http.StatusInternalServerError,
		"stored password digest is malformed",
	)

	ErrInvalidPayload = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid json",
	)

	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrPayloadTooLarge = NewDomainError(
		"PAYLOAD_TOO_LARGE",
		CategoryValidation,
		http.StatusRequestEntityTooLarge,
		"request body too large",
	)

	ErrRequestTimeout = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"request timed out",
	)

	ErrUnauthenticated = NewDomainError(
		"UNAUTHENTICATED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication required",
	)
)
