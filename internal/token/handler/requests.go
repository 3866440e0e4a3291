package handler

import (
	"strings"

	"impulsa/pkg/validation"
)

// IssueRequest names the target to embed; empty means general standing.
type IssueRequest struct {
	TargetID string `json:"target_id" validate:"omitempty,slug,max=64"`
}

func (r *IssueRequest) Normalize() {
	r.TargetID = strings.TrimSpace(r.TargetID)
}

func (r *IssueRequest) Validate() error {
	return validation.Validate(r)
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

func (r *VerifyRequest) Normalize() {
	r.Token = strings.TrimSpace(r.Token)
}

func (r *VerifyRequest) Validate() error {
	return validation.Validate(r)
}
