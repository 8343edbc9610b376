package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError and fixes its HTTP status.
type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindAuthentication  ErrorKind = "AUTHENTICATION_ERROR"
	KindAuthorization   ErrorKind = "AUTHORIZATION_ERROR"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindRateLimit       ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindDatabase        ErrorKind = "DATABASE_ERROR"
	KindExternalService ErrorKind = "EXTERNAL_SERVICE_ERROR"
)

var kindStatus = map[ErrorKind]int{
	KindValidation:      http.StatusBadRequest,
	KindAuthentication:  http.StatusUnauthorized,
	KindAuthorization:   http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindRateLimit:       http.StatusTooManyRequests,
	KindDatabase:        http.StatusInternalServerError,
	KindExternalService: http.StatusBadGateway,
}

// AppError is a domain error with a user-facing message.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error's kind.
func (e *AppError) StatusCode() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func NewValidationError(msg string) error {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewAuthenticationError(msg string) error {
	return &AppError{Kind: KindAuthentication, Message: msg}
}

func NewAuthorizationError(msg string) error {
	return &AppError{Kind: KindAuthorization, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewRateLimitError(msg string) error {
	return &AppError{Kind: KindRateLimit, Message: msg}
}

func NewDatabaseError(msg string, err error) error {
	return &AppError{Kind: KindDatabase, Message: msg, Err: err}
}

func NewExternalServiceError(msg string, err error) error {
	return &AppError{Kind: KindExternalService, Message: msg, Err: err}
}

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}

// AsDatabaseError passes domain errors through and wraps anything else as a database error.
func AsDatabaseError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	return NewDatabaseError(msg, err)
}
