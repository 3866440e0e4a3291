package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"impulsa/internal/eligibility/models"
	"impulsa/internal/platform/middleware"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

// Service defines the eligibility operations exposed over HTTP.
type Service interface {
	Evaluate(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error)
	EvaluateAll(ctx context.Context, userID id.UserID) ([]*models.Result, error)
	CreateTarget(ctx context.Context, req *models.CreateTargetRequest) (*models.Target, error)
	AddRule(ctx context.Context, targetID id.TargetID, req *models.AddRuleRequest) (*models.Rule, error)
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

// Register mounts the caller-facing routes. The router must already carry
// the subject middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/eligibility", h.HandleListEligibility)
	r.Get("/eligibility/{targetID}", h.HandleGetEligibility)
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/targets", h.HandleCreateTarget)
	r.Post("/admin/targets/{targetID}/rules", h.HandleAddRule)
}

// HandleListEligibility implements GET /eligibility.
func (h *Handler) HandleListEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	results, err := h.service.EvaluateAll(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to evaluate eligibility",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ListResponse{Results: results})
}

// HandleGetEligibility implements GET /eligibility/{targetID}.
func (h *Handler) HandleGetEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	targetID, err := id.ParseTargetID(chi.URLParam(r, "targetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.Evaluate(ctx, userID, targetID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to evaluate eligibility",
				"request_id", requestID,
				"user_id", userID,
				"target_id", targetID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleCreateTarget implements POST /admin/targets.
func (h *Handler) HandleCreateTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateTargetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	target, err := h.service.CreateTarget(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create target",
			"request_id", requestID,
			"target_id", req.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTargetResponse(target))
}

// HandleAddRule implements POST /admin/targets/{targetID}/rules.
// Input: { "id": "ruta-basica", "name": "...", "weight": 0.5, "condition": {"missions": ["..."]} }
func (h *Handler) HandleAddRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	targetID, err := id.ParseTargetID(chi.URLParam(r, "targetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.AddRuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	rule, err := h.service.AddRule(ctx, targetID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to add rule",
			"request_id", requestID,
			"target_id", targetID,
			"rule_id", req.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRuleResponse(rule))
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
