package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStore counts increments in memory, ignoring the TTL.
type fakeStore struct {
	counts map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}}
}

func (f *fakeStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(email, ip string) *http.Request {
	body := strings.NewReader(`{"email":"` + email + `","password":"whatever"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", body)
	req.Header.Set("X-Forwarded-For", ip)
	return req
}

func TestAuthRateLimitBlocksAfterLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 10, 3)
	store := newFakeStore()

	var passed int
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("clerk@globomantics.com", "10.0.0.1"))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 3, passed)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("clerk@globomantics.com", "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "RATE_LIMIT_EXCEEDED", decodeErrorCode(t, rec))
	require.Equal(t, 3, passed)
}

func TestAuthRateLimitEmailCounterIsCaseInsensitive(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 2)
	store := newFakeStore()

	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Different casings of the same address share a counter; different IPs
	// do not matter for the email limit.
	handler.ServeHTTP(httptest.NewRecorder(), loginRequest("Clerk@Globomantics.com", "10.0.0.1"))
	handler.ServeHTTP(httptest.NewRecorder(), loginRequest("clerk@globomantics.com", "10.0.0.2"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("CLERK@globomantics.com", "10.0.0.3"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)

	handler := AuthRateLimit(policy, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("clerk@globomantics.com", "10.0.0.1"))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
