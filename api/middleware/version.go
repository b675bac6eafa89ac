package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

var versionedPath = regexp.MustCompile(`^/api/v[0-9]+(/|$)`)

// Versioning rewrites unversioned API paths to the default version, so
// /api/products resolves as /api/v1/products. Already-versioned paths and
// non-API paths (health, metrics) pass through untouched.
func Versioning() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if strings.HasPrefix(path, "/api/") && !versionedPath.MatchString(path) {
				r.URL.Path = "/api/v1" + strings.TrimPrefix(path, "/api")
			}
			next.ServeHTTP(w, r)
		})
	}
}
