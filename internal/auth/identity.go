package auth

import "context"

// Identity is the authenticated caller extracted from a request.
// ProfileID is zero for accounts without a profile (staff/superuser).
type Identity struct {
	UserID    uint64
	ProfileID uint64
	Staff     bool
	Superuser bool
}

// Admin reports whether the identity has elevated rights.
func (i Identity) Admin() bool {
	return i.Staff || i.Superuser
}

// HasProfile reports whether the identity owns a profile. Mutating
// domain operations require this.
func (i Identity) HasProfile() bool {
	return i.ProfileID != 0
}

type ctxKey struct{}

// WithIdentity attaches the identity to the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom extracts the identity from the context. ok is false for
// anonymous requests.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
