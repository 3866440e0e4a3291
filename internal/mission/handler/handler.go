package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"impulsa/internal/mission/models"
	"impulsa/internal/platform/middleware"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

// Service defines the mission operations exposed over HTTP.
type Service interface {
	ListWithStatus(ctx context.Context, userID id.UserID) ([]models.MissionWithStatus, error)
	CompleteMission(ctx context.Context, userID id.UserID, missionID id.MissionID, sub models.Submission) (*models.CompletionResult, error)
	Cooldown(ctx context.Context, userID id.UserID, missionID id.MissionID) (*models.CooldownStatus, error)
	Attempts(ctx context.Context, userID id.UserID, missionID id.MissionID) ([]*models.Attempt, error)
	CreateMission(ctx context.Context, req *models.CreateMissionRequest) (*models.Mission, error)
	ReviewSubmission(ctx context.Context, userID id.UserID, missionID id.MissionID, approved bool) (*models.CompletionResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/missions", h.HandleListMissions)
	r.Post("/missions/{missionID}/complete", h.HandleCompleteMission)
	r.Get("/missions/{missionID}/cooldown", h.HandleCooldown)
	r.Get("/missions/{missionID}/attempts", h.HandleAttempts)
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/missions", h.HandleCreateMission)
	r.Post("/admin/reviews", h.HandleReview)
}

// HandleListMissions implements GET /missions. Each mission carries the
// caller's status for it.
func (h *Handler) HandleListMissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	missions, err := h.service.ListWithStatus(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list missions",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := &MissionListResponse{Missions: make([]*MissionResponse, 0, len(missions))}
	for _, m := range missions {
		resp.Missions = append(resp.Missions, toMissionResponse(m.Mission, m.Status))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleCompleteMission implements POST /missions/{missionID}/complete.
// A failed quiz answers 200 with success=false; rule violations such as an
// active cooldown answer 409.
func (h *Handler) HandleCompleteMission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	missionID, ok := h.missionParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.CompleteMissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.CompleteMission(ctx, userID, missionID, req.ToSubmission())
	if err != nil {
		h.logFailure(ctx, "mission completion rejected", err,
			"request_id", requestID,
			"user_id", userID,
			"mission_id", missionID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompletionResponse(res))
}

// HandleCooldown implements GET /missions/{missionID}/cooldown.
func (h *Handler) HandleCooldown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	missionID, ok := h.missionParam(w, r)
	if !ok {
		return
	}

	cd, err := h.service.Cooldown(ctx, userID, missionID)
	if err != nil {
		h.logFailure(ctx, "failed to read cooldown", err,
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"mission_id", missionID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CooldownResponse{
		CanAttempt:    cd.CanAttempt,
		RetryAfter:    cd.RetryAfter,
		RemainingDays: cd.RemainingDays,
		Message:       cd.Message,
	})
}

// HandleAttempts implements GET /missions/{missionID}/attempts.
func (h *Handler) HandleAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	missionID, ok := h.missionParam(w, r)
	if !ok {
		return
	}

	attempts, err := h.service.Attempts(ctx, userID, missionID)
	if err != nil {
		h.logFailure(ctx, "failed to list attempts", err,
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"mission_id", missionID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAttemptList(attempts))
}

// HandleCreateMission implements POST /admin/missions.
func (h *Handler) HandleCreateMission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateMissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	m, err := h.service.CreateMission(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create mission",
			"request_id", requestID,
			"mission_id", req.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMissionResponse(m, ""))
}

// HandleReview implements POST /admin/reviews.
// Input: { "user_id": "...", "mission_id": "plan-de-negocio", "approved": true }
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	missionID, err := id.ParseMissionID(req.MissionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.ReviewSubmission(ctx, userID, missionID, *req.Approved)
	if err != nil {
		h.logFailure(ctx, "failed to review submission", err,
			"request_id", requestID,
			"user_id", userID,
			"mission_id", missionID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompletionResponse(res))
}

func (h *Handler) missionParam(w http.ResponseWriter, r *http.Request) (id.MissionID, bool) {
	missionID, err := id.ParseMissionID(chi.URLParam(r, "missionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return missionID, true
}

// logFailure logs client-caused rejections at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "user id missing from context despite subject middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "user context error"))
		return userID, false
	}
	return userID, true
}
