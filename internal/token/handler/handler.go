package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/platform/middleware"
	"impulsa/internal/token"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

type Service interface {
	Issue(ctx context.Context, userID id.UserID, targetID id.TargetID) (*token.Issued, error)
	Verify(ctx context.Context, raw string) (*token.Verification, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/eligibility/tokens", h.HandleIssue)
	r.Post("/eligibility/tokens/verify", h.HandleVerify)
}

type IssueResponse struct {
	Token      string         `json:"token"`
	TokenID    string         `json:"token_id"`
	ExpiresAt  time.Time      `json:"expires_at"`
	TargetID   id.TargetID    `json:"target_id,omitempty"`
	Status     emodels.Status `json:"status"`
	Percentage float64        `json:"percentage"`
}

type VerifyResponse struct {
	Valid      bool           `json:"valid"`
	Reason     token.Reason   `json:"reason,omitempty"`
	UserID     *id.UserID     `json:"user_id,omitempty"`
	TargetID   id.TargetID    `json:"target_id,omitempty"`
	Status     emodels.Status `json:"status,omitempty"`
	Percentage *float64       `json:"percentage,omitempty"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
}

// HandleIssue implements POST /eligibility/tokens.
// Input: { "target_id": "feria-emprende" } or {} for general standing.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	userID := middleware.GetUserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "user context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	issued, err := h.service.Issue(ctx, userID, id.TargetID(req.TargetID))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue eligibility token",
			"request_id", requestID,
			"user_id", userID,
			"target_id", req.TargetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &IssueResponse{
		Token:      issued.Token,
		TokenID:    issued.TokenID,
		ExpiresAt:  issued.ExpiresAt,
		TargetID:   issued.Result.TargetID,
		Status:     issued.Result.Status,
		Percentage: issued.Result.Percentage,
	})
}

// HandleVerify implements POST /eligibility/tokens/verify. Rejected tokens
// answer 200 with valid=false and a reason.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	v, err := h.service.Verify(ctx, req.Token)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to verify eligibility token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !v.Valid {
		httputil.WriteJSON(w, http.StatusOK, &VerifyResponse{Reason: v.Reason})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyResponse{
		Valid:      true,
		UserID:     &v.UserID,
		TargetID:   v.TargetID,
		Status:     v.Status,
		Percentage: &v.Percentage,
		ExpiresAt:  &v.ExpiresAt,
	})
}
