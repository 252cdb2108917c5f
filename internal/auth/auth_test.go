package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type verifierFunc func(ctx context.Context, token string) (string, error)

func (f verifierFunc) OwnerForToken(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

var tokens = verifierFunc(func(ctx context.Context, token string) (string, error) {
	switch token {
	case "good":
		return "owner-1", nil
	case "broken":
		return "", errors.New("db down")
	}
	return "", nil
})

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, BearerToken(r), "header %q", tt.header)
	}
}

func TestRequire(t *testing.T) {
	var seen string
	h := Require(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = OwnerFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		owner  string
	}{
		{"valid", "Bearer good", http.StatusNoContent, "owner-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"unknown", "Bearer nope", http.StatusUnauthorized, ""},
		{"lookup fails", "Bearer broken", http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			r := httptest.NewRequest(http.MethodGet, "/api/me/profile", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.owner, seen)
			if tt.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Sign in required"}`, rec.Body.String())
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestOwnerFrom(t *testing.T) {
	_, ok := OwnerFrom(context.Background())
	assert.False(t, ok)

	_, ok = OwnerFrom(WithOwner(context.Background(), ""))
	assert.False(t, ok)

	owner, ok := OwnerFrom(WithOwner(context.Background(), "o"))
	assert.True(t, ok)
	assert.Equal(t, "o", owner)
}
