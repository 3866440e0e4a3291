package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"impulsa/internal/badge"
	"impulsa/internal/badge/service"
	"impulsa/internal/platform/middleware"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

type Service interface {
	Sweep(ctx context.Context, userID id.UserID) ([]badge.Award, error)
	List(ctx context.Context, userID id.UserID) ([]service.Status, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/badges", h.HandleListBadges)
	r.Post("/me/badges/sweep", h.HandleSweep)
}

type BadgeResponse struct {
	ID          id.BadgeID      `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Condition   badge.Condition `json:"condition"`
	Area        string          `json:"area,omitempty"`
	CoinsReward int             `json:"coins_reward"`
	Earned      bool            `json:"earned"`
	EarnedAt    *time.Time      `json:"earned_at,omitempty"`
}

type BadgeListResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

type AwardResponse struct {
	BadgeID  id.BadgeID `json:"badge_id"`
	Title    string     `json:"title"`
	Coins    int        `json:"coins"`
	EarnedAt time.Time  `json:"earned_at"`
}

type SweepResponse struct {
	Awarded []AwardResponse `json:"awarded"`
}

// HandleListBadges implements GET /badges.
func (h *Handler) HandleListBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "user context error"))
		return
	}

	statuses, err := h.service.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list badges",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := &BadgeListResponse{Badges: make([]BadgeResponse, 0, len(statuses))}
	for _, st := range statuses {
		resp.Badges = append(resp.Badges, BadgeResponse{
			ID:          st.Badge.ID,
			Title:       st.Badge.Title,
			Description: st.Badge.Description,
			Icon:        st.Badge.Icon,
			Condition:   st.Badge.Condition,
			Area:        st.Badge.Area,
			CoinsReward: st.Badge.CoinsReward,
			Earned:      st.Earned,
			EarnedAt:    st.EarnedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSweep implements POST /me/badges/sweep.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "user context error"))
		return
	}

	awards, err := h.service.Sweep(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "badge sweep failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := &SweepResponse{Awarded: make([]AwardResponse, 0, len(awards))}
	for _, a := range awards {
		resp.Awarded = append(resp.Awarded, AwardResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
