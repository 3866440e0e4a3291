package events

import (
	"time"

	id "impulsa/pkg/domain"
)

// Kind names a progression event.
type Kind string

const (
	KindMissionCompleted Kind = "mission_completed"
	KindMissionFailed    Kind = "mission_failed"
	KindMissionSubmitted Kind = "mission_submitted"
	KindMissionRejected  Kind = "mission_rejected"
	KindLevelUp          Kind = "level_up"
	KindBadgeAwarded     Kind = "badge_awarded"
)

// Event is emitted after a progression change has been committed. It is
// transport-agnostic; sinks decide how to persist or forward it.
type Event struct {
	ID         string       `json:"id"`
	Kind       Kind         `json:"kind"`
	UserID     id.UserID    `json:"user_id"`
	MissionID  id.MissionID `json:"mission_id,omitempty"`
	BadgeID    id.BadgeID   `json:"badge_id,omitempty"`
	Title      string       `json:"title,omitempty"`
	Level      int          `json:"level,omitempty"`
	LevelName  string       `json:"level_name,omitempty"`
	Points     int          `json:"points,omitempty"`
	Coins      int          `json:"coins,omitempty"`
	Score      *float64     `json:"score,omitempty"`
	RetryAfter *time.Time   `json:"retry_after,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
