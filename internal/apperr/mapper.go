package apperr

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Status converts repo/service errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden

	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed

	case errors.Is(err, ErrInvalidVisit), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrProfileExists):
		return http.StatusConflict

	case errors.Is(err, ErrThrottled):
		return http.StatusTooManyRequests

	case errors.Is(err, ErrCodeExhausted):
		// fatal for this creation attempt, surfaced to the caller
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return 499 // client closed request

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Internal
// errors are masked; domain errors surface their own text.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
