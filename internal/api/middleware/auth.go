package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/riii-services/backend/internal/infrastructure/observability"
	"github.com/riii-services/backend/pkg/auth"
)

type claimsKey struct{}

// AdminAuth guards admin routes with an HS256 bearer token. An empty secret
// disables the check.
type AdminAuth struct {
	secret string
}

// NewAdminAuth creates the admin guard
func NewAdminAuth(secret string) *AdminAuth {
	return &AdminAuth{secret: secret}
}

// Enabled reports whether tokens are checked
func (a *AdminAuth) Enabled() bool {
	return a != nil && a.secret != ""
}

// Require wraps an admin handler
func (a *AdminAuth) Require(next http.HandlerFunc) http.HandlerFunc {
	if !a.Enabled() {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(w, "Authorization required")
			return
		}

		claims, err := auth.ValidateToken(a.secret, strings.TrimSpace(token))
		if err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).
				Str("path", r.URL.Path).
				Msg("Rejected admin token")
			unauthorized(w, "Invalid or expired token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// ClaimsFromContext returns the admin claims of an authenticated request
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
