package models

import (
	"time"

	id "impulsa/pkg/domain"
)

type Kind string

const (
	KindLevelUp          Kind = "level_up"
	KindBadgeAwarded     Kind = "badge_awarded"
	KindMissionCompleted Kind = "mission_completed"
	KindMissionFailed    Kind = "mission_failed"
)

// Notification is a message shown in the user's inbox.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	UserID    id.UserID         `json:"user_id"`
	Kind      Kind              `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}
