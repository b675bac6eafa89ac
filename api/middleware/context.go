package middleware

import "context"

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity is the authenticated principal derived from a verified token.
type Identity struct {
	UserID    uint
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

// HasAnyRole reports whether the identity holds at least one of the roles.
func (i Identity) HasAnyRole(roles ...string) bool {
	for _, required := range roles {
		for _, held := range i.Roles {
			if held == required {
				return true
			}
		}
	}
	return false
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(Identity)
	return identity, ok
}

// WithIdentity injects the identity into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}
