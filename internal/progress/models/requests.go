package models

import (
	"strings"

	"impulsa/pkg/validation"
)

// RegisterUserRequest creates the progress record for a user the gateway
// already knows. UserID is optional; a random one is minted when empty.
type RegisterUserRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Name   string `json:"name" validate:"required,notblank,max=200"`
	Email  string `json:"email" validate:"required,email,max=320"`
}

func (r *RegisterUserRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterUserRequest) Validate() error {
	return validation.Validate(r)
}

// DocumentStatusRequest is the body of PUT /admin/users/{id}/documents/{type}.
type DocumentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted approved rejected"`
}

func (r *DocumentStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *DocumentStatusRequest) Validate() error {
	return validation.Validate(r)
}
