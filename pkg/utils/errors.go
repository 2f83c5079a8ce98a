package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared across services. Handlers map them onto responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrExternal     = errors.New("external service failure")
)

// CustomError is an application error carrying an HTTP status
type CustomError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Detail  string            `json:"detail,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	cause   error
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// Is matches the sentinel corresponding to the error's status code
func (e *CustomError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrAccessDenied:
		return e.Code == http.StatusForbidden
	case ErrValidation:
		return e.Code == http.StatusBadRequest
	case ErrConflict:
		return e.Code == http.StatusConflict
	case ErrExternal:
		return e.Code == http.StatusBadGateway
	}
	return false
}

// WithField attaches a per-field validation message
func (e *CustomError) WithField(field, message string) *CustomError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewFieldValidationError reports a single invalid field
func NewFieldValidationError(field, message string) *CustomError {
	return NewValidationError(message).WithField(field, message)
}

func NewNotFoundError(resource string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "Not found",
		Detail:  resource,
	}
}

func NewAccessDeniedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: "Access denied",
		Detail:  detail,
	}
}

func NewConflictError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: "Conflict",
		Detail:  detail,
	}
}

func NewTooManyRequestsError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusTooManyRequests,
		Message: "Too many requests",
		Detail:  detail,
	}
}

// NewExternalError wraps a failure from an outside provider (SMTP, SMS, object storage)
func NewExternalError(service string, cause error) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: service + " failed",
		Detail:  cause.Error(),
		cause:   cause,
	}
}

// StatusCode returns the HTTP status for err, 500 for anything unrecognised
func StatusCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
