package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersioningRewritesUnversionedAPIPaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unversioned resource", in: "/api/products", want: "/api/v1/products"},
		{name: "unversioned nested", in: "/api/inventory/low-stock", want: "/api/v1/inventory/low-stock"},
		{name: "already v1", in: "/api/v1/products", want: "/api/v1/products"},
		{name: "already v2", in: "/api/v2/inventory", want: "/api/v2/inventory"},
		{name: "version root", in: "/api/v1", want: "/api/v1"},
		{name: "health untouched", in: "/health/ready", want: "/health/ready"},
		{name: "metrics untouched", in: "/metrics", want: "/metrics"},
		{name: "version-ish resource", in: "/api/vendor", want: "/api/v1/vendor"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := Versioning()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Path
			}))

			req := httptest.NewRequest(http.MethodGet, tc.in, nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)
			require.Equal(t, tc.want, got)
		})
	}
}
