package handler

import (
	"time"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/models"
)

type ListResponse struct {
	Results []*models.Result `json:"results"`
}

type TargetResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type RuleResponse struct {
	ID          string         `json:"id"`
	TargetID    string         `json:"target_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Weight      float64        `json:"weight"`
	Condition   condition.Expr `json:"condition"`
	Position    int            `json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toTargetResponse(t *models.Target) *TargetResponse {
	return &TargetResponse{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toRuleResponse(r *models.Rule) *RuleResponse {
	return &RuleResponse{
		ID:          r.ID.String(),
		TargetID:    r.TargetID.String(),
		Name:        r.Name,
		Description: r.Description,
		Weight:      r.Weight,
		Condition:   r.Condition,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
	}
}
