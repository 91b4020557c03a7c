package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is authenticated but may not act on the resource.
var ErrForbidden = errors.New("access forbidden")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("access unauthorized")

// ErrFailure indicates an unexpected internal failure (database, rate source, anything unclassified).
var ErrFailure = errors.New("internal failure")

// ErrCardAuthorization marks every card authorization failure. It is combined with
// the category sentinel (NotFound or Validation) that describes the specific reason.
var ErrCardAuthorization = errors.New("card authorization failed")

// Kind is the category every core operation error resolves to.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "ACCESS_FORBIDDEN"
	KindUnauthorized Kind = "ACCESS_UNAUTHORIZED"
	KindFailure      Kind = "FAILURE"
)

// AppError carries an HTTP-friendly code and a caller-safe message around an underlying error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf resolves err to its category. Sentinels are matched first so that an
// AppError wrapping ErrNotFound is still a NotFound; bare AppErrors fall back to their code.
// Anything unrecognised is a Failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrFailure):
		return KindFailure
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return KindValidation
		case http.StatusConflict:
			return KindConflict
		case http.StatusForbidden:
			return KindForbidden
		case http.StatusUnauthorized:
			return KindUnauthorized
		}
	}
	return KindFailure
}

// IsExpected reports whether err is a caller-facing category rather than an internal failure.
func IsExpected(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindFailure
}

// HTTPStatus maps a Kind to the status code handlers respond with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
