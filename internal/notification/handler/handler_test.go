package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"impulsa/internal/notification/handler/mocks"
	"impulsa/internal/notification/models"
	"impulsa/internal/platform/middleware"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

func setup(t *testing.T) (http.Handler, *mocks.MockService) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(middleware.RequireSubject(logger))
	New(svc, logger).Register(r)
	return r, svc
}

func request(router http.Handler, method, path string, userID id.UserID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(middleware.SubjectHeader, userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleList(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		unread     bool
		limit      int
		wantStatus int
		callsSvc   bool
	}{
		{name: "defaults", query: "", callsSvc: true, wantStatus: http.StatusOK},
		{name: "unread with limit", query: "?unread=true&limit=5", unread: true, limit: 5, callsSvc: true, wantStatus: http.StatusOK},
		{name: "bad limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setup(t)
			userID := id.NewUserID()
			if tt.callsSvc {
				svc.EXPECT().List(gomock.Any(), userID, tt.unread, tt.limit).Return([]*models.Notification{
					{ID: id.NewNotificationID(), UserID: userID, Kind: models.KindLevelUp, Title: "Level up", CreatedAt: time.Now()},
				}, nil)
			}

			rec := request(router, http.MethodGet, "/notifications"+tt.query, userID)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.callsSvc {
				var body ListResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Len(t, body.Notifications, 1)
			}
		})
	}
}

func TestHandleMarkRead(t *testing.T) {
	t.Run("marks read", func(t *testing.T) {
		router, svc := setup(t)
		userID := id.NewUserID()
		nID := id.NewNotificationID()
		svc.EXPECT().MarkRead(gomock.Any(), userID, nID).Return(&models.Notification{ID: nID, UserID: userID, Read: true}, nil)

		rec := request(router, http.MethodPut, "/notifications/"+nID.String()+"/read", userID)
		require.Equal(t, http.StatusOK, rec.Code)
		var body models.Notification
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Read)
	})

	t.Run("malformed id", func(t *testing.T) {
		router, _ := setup(t)
		rec := request(router, http.MethodPut, "/notifications/nope/read", id.NewUserID())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not owned", func(t *testing.T) {
		router, svc := setup(t)
		userID := id.NewUserID()
		nID := id.NewNotificationID()
		svc.EXPECT().MarkRead(gomock.Any(), userID, nID).Return(nil, dErrors.New(dErrors.CodeNotFound, "notification not found"))

		rec := request(router, http.MethodPut, "/notifications/"+nID.String()+"/read", userID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
