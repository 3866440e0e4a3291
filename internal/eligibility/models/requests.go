package models

import (
	"encoding/json"
	"strings"

	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/validation"
)

type CreateTargetRequest struct {
	ID          string `json:"id" validate:"required,slug,max=64"`
	Kind        string `json:"kind" validate:"required,oneof=event reward"`
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (r *CreateTargetRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateTargetRequest) Validate() error {
	return validation.Validate(r)
}

// AddRuleRequest carries the rule tree as raw JSON; it is parsed strictly by
// the service so authoring mistakes are rejected instead of failing closed.
type AddRuleRequest struct {
	ID          string          `json:"id" validate:"required,slug,max=64"`
	Name        string          `json:"name" validate:"required,notblank,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Weight      *float64        `json:"weight" validate:"required,gte=0,lte=1"`
	Condition   json.RawMessage `json:"condition"`
}

func (r *AddRuleRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *AddRuleRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if len(r.Condition) == 0 {
		return dErrors.New(dErrors.CodeValidation, "condition is required")
	}
	return nil
}
