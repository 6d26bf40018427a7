package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Fields     map[string]string `json:"fields,omitempty"`
	Details    map[string]any    `json:"details,omitempty"`
	Internal   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for field := range e.Fields {
			keys = append(keys, field)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, field := range keys {
			parts = append(parts, field+": "+e.Fields[field])
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps malformed-input errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: ErrBadRequest.StatusCode,
	}
}

// NewValidation reports every violated field at once; callers collect the full
// field map before constructing it.
func NewValidation(entity string, fields map[string]string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("%s validation failed", entity),
		StatusCode: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

// NewConflict signals a uniqueness violation, distinct from a validation error.
func NewConflict(entity, field, value string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		StatusCode: http.StatusConflict,
	}
}

// NewBusinessRule signals structurally valid input that violates a domain rule.
// Details carry the identifiers involved so callers can build actionable messages.
func NewBusinessRule(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       "BUSINESS_RULE",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// NewNotFound reports a missing referenced entity by id.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       ErrNotFound.Code,
		Message:    fmt.Sprintf("%s %v not found", entity, id),
		StatusCode: ErrNotFound.StatusCode,
	}
}

// IsValidation reports whether err is a VALIDATION_ERROR AppError.
func IsValidation(err error) bool {
	return hasCode(err, "VALIDATION_ERROR")
}

// IsConflict reports whether err is a CONFLICT AppError.
func IsConflict(err error) bool {
	return hasCode(err, "CONFLICT")
}

// IsBusinessRule reports whether err is a BUSINESS_RULE AppError.
func IsBusinessRule(err error) bool {
	return hasCode(err, "BUSINESS_RULE")
}

// IsNotFound reports whether err is a NOT_FOUND AppError.
func IsNotFound(err error) bool {
	return hasCode(err, "NOT_FOUND")
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
