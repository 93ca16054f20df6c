package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/langchain-flow/engine/internal/auth"
)

type identityKeyType string

const identityKey identityKeyType = "identity"

// Identity is the authenticated caller, attached to the request context by
// the Auth middleware. Ownership of every project-scoped resource is
// derived from it, never from the request body.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Auth validates a Bearer JWT and attaches the caller identity to context.
// All failures are a uniform 401; the reason is never disclosed.
func Auth(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				unauthorized(w)
				return
			}
			claims, err := tm.Verify(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				unauthorized(w)
				return
			}
			uid, err := uuid.Parse(claims.UserID)
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, Identity{UserID: uid, Username: claims.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated identity, if any.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Test helper.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "Not authenticated",
	})
}
