// Package auth resolves the authenticated owner of a request. The owner is
// an opaque subject string; nothing else about identity lives here.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Verifier maps a bearer token to its owner. An unknown token yields "".
type Verifier interface {
	OwnerForToken(ctx context.Context, token string) (string, error)
}

type ctxKey struct{}

// WithOwner returns a context carrying the owner
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ownerID)
}

// OwnerFrom returns the owner stored by the middleware
func OwnerFrom(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ctxKey{}).(string)
	return owner, ok && owner != ""
}

// BearerToken extracts the token from an Authorization header
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// Require rejects requests without a valid bearer token and stores the
// owner in the request context
func Require(v Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}
			owner, err := v.OwnerForToken(r.Context(), token)
			if err != nil {
				log.Error("token lookup failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, `{"error":"Authentication unavailable"}`)
				return
			}
			if owner == "" {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="athletefolio"`)
	writeError(w, http.StatusUnauthorized, `{"error":"Sign in required"}`)
}

func writeError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
