package middleware

import (
	"context"
	"log/slog"
	"net/http"

	id "impulsa/pkg/domain"
)

// SubjectHeader carries the caller's user id. Authentication happens at the
// gateway in front of this service; the header is trusted as-is.
const SubjectHeader = "X-User-ID"

type contextKeyUserID struct{}

// WithUserID stores the caller's user id in ctx.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

// GetUserID returns the caller's user id, or the nil id when absent.
func GetUserID(ctx context.Context) id.UserID {
	userID, _ := ctx.Value(contextKeyUserID{}).(id.UserID)
	return userID
}

// RequireSubject rejects requests without a well-formed subject header.
func RequireSubject(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, err := id.ParseUserID(r.Header.Get(SubjectHeader))
			if err != nil || userID.IsNil() {
				logger.WarnContext(ctx, "missing or invalid subject header",
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"missing user context"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}
