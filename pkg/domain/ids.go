// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "impulsa/pkg/domain-errors"
)

// Users, attempts and notifications are UUID-keyed; catalogue entries carry
// authored slugs so rule trees and YAML stay readable.
type (
	UserID         uuid.UUID
	AttemptID      uuid.UUID
	NotificationID uuid.UUID

	MissionID string
	TargetID  string
	RuleID    string
	BadgeID   string
)

const maxSlugLength = 64

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	id, err := parseUUID(s, "notification ID")
	return NotificationID(id), err
}

func ParseMissionID(s string) (MissionID, error) {
	slug, err := parseSlug(s, "mission ID")
	return MissionID(slug), err
}

func ParseTargetID(s string) (TargetID, error) {
	slug, err := parseSlug(s, "target ID")
	return TargetID(slug), err
}

func ParseRuleID(s string) (RuleID, error) {
	slug, err := parseSlug(s, "rule ID")
	return RuleID(slug), err
}

func ParseBadgeID(s string) (BadgeID, error) {
	slug, err := parseSlug(s, "badge ID")
	return BadgeID(slug), err
}

// String methods - for logging and debugging.

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id AttemptID) String() string      { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id MissionID) String() string      { return string(id) }
func (id TargetID) String() string       { return string(id) }
func (id RuleID) String() string         { return string(id) }
func (id BadgeID) String() string        { return string(id) }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id AttemptID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MissionID) IsNil() bool      { return id == "" }
func (id TargetID) IsNil() bool       { return id == "" }
func (id RuleID) IsNil() bool         { return id == "" }
func (id BadgeID) IsNil() bool        { return id == "" }

// NewUserID, NewAttemptID and NewNotificationID mint random identifiers.
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewAttemptID() AttemptID           { return AttemptID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed so store lookups can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}

func parseSlug(s, label string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > maxSlugLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	return s, nil
}

// Text marshaling keeps UUID-backed ids readable in JSON payloads and caches.

func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id AttemptID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *AttemptID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *NotificationID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
