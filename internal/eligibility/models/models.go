package models

import (
	"time"

	"impulsa/internal/eligibility/condition"
	id "impulsa/pkg/domain"
)

// TargetKind distinguishes gated events from redeemable rewards.
type TargetKind string

const (
	TargetEvent  TargetKind = "event"
	TargetReward TargetKind = "reward"
)

func (k TargetKind) IsValid() bool {
	return k == TargetEvent || k == TargetReward
}

// Target is something a user can become eligible for.
type Target struct {
	ID          id.TargetID
	Kind        TargetKind
	Title       string
	Description string
	CreatedAt   time.Time
}

// Rule is one weighted condition attached to a target. Position preserves
// authoring order, which is the order missing requirements are reported in.
type Rule struct {
	ID          id.RuleID
	TargetID    id.TargetID
	Name        string
	Description string
	Weight      float64
	Condition   condition.Expr
	Position    int
	CreatedAt   time.Time
}

// Status is the eligibility verdict band.
type Status string

const (
	StatusEligible    Status = "eligible"
	StatusPartial     Status = "partial"
	StatusNotEligible Status = "not_eligible"
)

// Result is one user's standing against one target. It is JSON-encoded as-is
// in the result cache and in token claims.
type Result struct {
	TargetID    id.TargetID          `json:"target_id,omitempty"`
	UserID      id.UserID            `json:"user_id"`
	Status      Status               `json:"status"`
	Percentage  float64              `json:"percentage"`
	Missing     []MissingRequirement `json:"missing_requirements"`
	EvaluatedAt time.Time            `json:"evaluated_at"`
}

// MissingRequirement names a rule the user has not yet satisfied and how far
// along they are on it, unweighted.
type MissingRequirement struct {
	RuleID      id.RuleID `json:"rule_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Percentage  float64   `json:"percentage"`
}
