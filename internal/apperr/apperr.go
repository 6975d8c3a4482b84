// Package apperr defines the domain error taxonomy and the mapping
// from internal failures to HTTP responses. Services return these
// sentinels (optionally wrapped); the HTTP layer maps them centrally.
package apperr

import "errors"

var (
	// ErrNotFound covers both "absent" and "exists but not yours" so
	// that non-owned resources are indistinguishable from missing ones.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the requester lacks the relationship
	// the operation requires (owner, visitor, self).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidVisit rejects a visit where the visitor and the
	// visited profile belong to the same account.
	ErrInvalidVisit = errors.New("cannot visit your own profile")

	// ErrCodeExhausted means no unique profile code could be claimed
	// within the allocator's retry limit.
	ErrCodeExhausted = errors.New("profile code allocation exhausted")

	// ErrProfileExists rejects a second profile for the same account
	// (the owner index is 1:1).
	ErrProfileExists = errors.New("profile already exists for this user")

	// ErrMethodNotAllowed guards operations that are permanently
	// disabled at the access layer (deletes on users/profiles/visits).
	ErrMethodNotAllowed = errors.New("method not allowed")

	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrThrottled          = errors.New("too many update requests")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Invalid wraps a validation message as an ErrInvalidArgument.
func Invalid(msg string) error {
	return &withMessage{err: ErrInvalidArgument, msg: msg}
}

type withMessage struct {
	err error
	msg string
}

func (w *withMessage) Error() string { return w.msg }
func (w *withMessage) Unwrap() error { return w.err }
