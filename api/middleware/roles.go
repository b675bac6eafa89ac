package middleware

import (
	"net/http"

	"github.com/globomantics/inventory-backend/api/responses"
	pkgerrors "github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
)

// RequireRoles passes requests whose identity holds at least one of the given
// roles. With no roles listed, any authenticated identity passes. A missing
// identity is a 401; an identity without an allowed role is a 403.
func RequireRoles(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if len(roles) > 0 && !identity.HasAnyRole(roles...) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
