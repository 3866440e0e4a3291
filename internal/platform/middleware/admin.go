package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"impulsa/pkg/secrets"
)

// AdminTokenHeader carries the shared admin secret.
const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken guards catalogue authoring and review routes. The
// configured token is either the plaintext secret or its bcrypt hash.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	hashed := secrets.IsHash(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AdminTokenHeader)
			if !adminTokenMatches(token, expectedToken, hashed) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func adminTokenMatches(token, expected string, hashed bool) bool {
	if expected == "" || token == "" {
		return false
	}
	if hashed {
		return secrets.Verify(token, expected) == nil
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}
