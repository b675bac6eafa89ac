package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/globomantics/inventory-backend/api/responses"
	pkgauth "github.com/globomantics/inventory-backend/pkg/auth"
	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/stretchr/testify/require"
)

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "https://api.globomantics.com",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, roles []string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:    7,
		Email:     "clerk@globomantics.com",
		FirstName: "Jamie",
		LastName:  "Rivera",
		Roles:     roles,
	})
	require.NoError(t, err)
	return token
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope responses.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Error.Code
}

func TestAuthSeedsIdentity(t *testing.T) {
	cfg := authTestConfig()

	var seen Identity
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, []string{"inventory_manager"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint(7), seen.UserID)
	require.Equal(t, []string{"inventory_manager"}, seen.Roles)
}

func TestAuthRejectsBadTokensUniformly(t *testing.T) {
	cfg := authTestConfig()

	rogue := cfg
	rogue.Issuer = "https://rogue.example.com"

	expiredTTL := 0
	expired, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-time.Second), pkgauth.AccessTokenPayload{
		UserID:     7,
		TTLMinutes: &expiredTTL,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "empty bearer", header: "Bearer "},
		{name: "malformed token", header: "Bearer not.a.jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong issuer", header: "Bearer " + mustMint(t, rogue)},
		{name: "wrong secret", header: "Bearer " + mustMint(t, config.JWTConfig{
			Secret:            "a-different-secret",
			Issuer:            cfg.Issuer,
			ExpirationMinutes: 30,
		})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec))
		})
	}
}

func mustMint(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{UserID: 7})
	require.NoError(t, err)
	return token
}
