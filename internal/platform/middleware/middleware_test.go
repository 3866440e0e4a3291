package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "impulsa/pkg/domain"
	"impulsa/pkg/requestcontext"
	"impulsa/pkg/secrets"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	t.Run("propagates inbound header", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("mints id and pins request time", func(t *testing.T) {
		var seenID string
		var pinned bool
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seenID = GetRequestID(r.Context())
			first := requestcontext.Now(r.Context())
			pinned = first.Equal(requestcontext.Now(r.Context()))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seenID)
		assert.True(t, pinned)
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"internal_error"`)
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, accessLevel("/missions", http.StatusServiceUnavailable))
	assert.Equal(t, slog.LevelWarn, accessLevel("/health/ready", http.StatusNotFound))
	assert.Equal(t, slog.LevelDebug, accessLevel("/health/live", http.StatusOK))
	assert.Equal(t, slog.LevelInfo, accessLevel("/me/progress", http.StatusOK))
}

func TestRequireAdminToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	hash, err := secrets.Hash("secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		expected string
		header   string
		want     int
	}{
		{name: "matching token", expected: "secret", header: "secret", want: http.StatusNoContent},
		{name: "wrong token", expected: "secret", header: "nope", want: http.StatusUnauthorized},
		{name: "missing token", expected: "secret", want: http.StatusUnauthorized},
		{name: "unconfigured token rejects all", expected: "", header: "", want: http.StatusUnauthorized},
		{name: "hashed token matches", expected: hash, header: "secret", want: http.StatusNoContent},
		{name: "hashed token rejects wrong secret", expected: hash, header: "nope", want: http.StatusUnauthorized},
		{name: "hash itself is not accepted", expected: hash, header: hash, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/missions", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAdminToken(tt.expected, discardLogger())(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireSubject(t *testing.T) {
	userID := id.NewUserID()

	t.Run("injects user id", func(t *testing.T) {
		var got id.UserID
		h := RequireSubject(discardLogger())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = GetUserID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/me/progress", nil)
		req.Header.Set(SubjectHeader, userID.String())
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, got)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		h := RequireSubject(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		}))
		req := httptest.NewRequest(http.MethodGet, "/me/progress", nil)
		req.Header.Set(SubjectHeader, "not-a-uuid")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("absent user id is nil", func(t *testing.T) {
		assert.True(t, GetUserID(context.Background()).IsNil())
	})
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodPost, "/missions/x/complete", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/missions/x/complete", nil)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
