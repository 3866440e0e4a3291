package handler

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"impulsa/internal/platform/middleware"
	"impulsa/internal/progress/models"
	"impulsa/internal/progress/service"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

type Service interface {
	Register(ctx context.Context, req *models.RegisterUserRequest) (*models.UserProgress, error)
	Get(ctx context.Context, userID id.UserID) (*service.View, error)
	SetDocumentStatus(ctx context.Context, userID id.UserID, docType string, status models.DocumentStatus) (*models.UserProgress, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/me/progress", h.HandleGetProgress)
	r.Get("/leaderboard", h.HandleLeaderboard)
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/users", h.HandleRegisterUser)
	r.Put("/admin/users/{userID}/documents/{docType}", h.HandleSetDocumentStatus)
}

// HandleGetProgress implements GET /me/progress.
func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "user context error"))
		return
	}

	view, err := h.service.Get(ctx, userID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load progress",
				"request_id", middleware.GetRequestID(ctx),
				"user_id", userID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProgressResponse(view))
}

// HandleLeaderboard implements GET /leaderboard?limit=10.
func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load leaderboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := &LeaderboardResponse{Entries: make([]LeaderboardEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, LeaderboardEntryResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleRegisterUser implements POST /admin/users.
// Input: { "user_id": "optional uuid", "name": "Ana", "email": "ana@example.com" }
func (h *Handler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to register user",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &UserResponse{
		UserID:    p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Level:     p.Level,
		CreatedAt: p.CreatedAt,
	})
}

// HandleSetDocumentStatus implements PUT /admin/users/{userID}/documents/{docType}.
// Input: { "status": "approved" }
func (h *Handler) HandleSetDocumentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	docType := chi.URLParam(r, "docType")

	req, ok := httputil.DecodeAndPrepare[models.DocumentStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.SetDocumentStatus(ctx, userID, docType, models.DocumentStatus(req.Status))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update document status",
			"request_id", requestID,
			"user_id", userID,
			"document_type", docType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &DocumentsResponse{UserID: p.ID, Documents: p.Documents})
}

func sortedMissionIDs(ids []id.MissionID) []id.MissionID {
	slices.SortFunc(ids, func(a, b id.MissionID) int { return cmp.Compare(a, b) })
	return ids
}
