package middleware

import (
	"net/http"
	"strings"

	"github.com/globomantics/inventory-backend/api/responses"
	pkgAuth "github.com/globomantics/inventory-backend/pkg/auth"
	"github.com/globomantics/inventory-backend/pkg/config"
	pkgerrors "github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// identity. Malformed, expired, and wrong-issuer tokens all produce the same
// outward 401; the distinction only reaches the log.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			userID, err := claims.SubjectUserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			identity := Identity{
				UserID:    userID,
				Email:     claims.Email,
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
				Roles:     claims.Roles,
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": userID,
					"roles":   claims.Roles,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
