package handler

import (
	"time"

	"impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
)

// QuestionResponse omits the correct answer.
type QuestionResponse struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type MissionResponse struct {
	ID               id.MissionID       `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Type             models.Type        `json:"type"`
	Position         int                `json:"position"`
	CompetenceArea   string             `json:"competence_area,omitempty"`
	Prerequisites    []id.MissionID     `json:"prerequisites"`
	EvidenceRequired bool               `json:"evidence_required"`
	AutoApprove      bool               `json:"auto_approve"`
	PointsReward     int                `json:"points_reward"`
	CoinsReward      int                `json:"coins_reward"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	Status           models.Status      `json:"status,omitempty"`
}

type MissionListResponse struct {
	Missions []*MissionResponse `json:"missions"`
}

type CompletionResponse struct {
	Success       bool          `json:"success"`
	Status        models.Status `json:"status"`
	Score         *float64      `json:"score,omitempty"`
	PointsAwarded int           `json:"points_awarded"`
	CoinsAwarded  int           `json:"coins_awarded"`
	LevelChanged  bool          `json:"level_changed"`
	Level         int           `json:"level"`
	BadgesAwarded []id.BadgeID  `json:"badges_awarded"`
	RetryAfter    *time.Time    `json:"retry_after,omitempty"`
	Message       string        `json:"message"`
}

type CooldownResponse struct {
	CanAttempt    bool       `json:"can_attempt"`
	RetryAfter    *time.Time `json:"retry_after,omitempty"`
	RemainingDays int        `json:"remaining_days"`
	Message       string     `json:"message"`
}

type AttemptResponse struct {
	ID          id.AttemptID   `json:"id"`
	Outcome     models.Outcome `json:"outcome"`
	Score       *float64       `json:"score,omitempty"`
	AttemptedAt time.Time      `json:"attempted_at"`
}

type AttemptListResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
}

func toMissionResponse(m *models.Mission, status models.Status) *MissionResponse {
	resp := &MissionResponse{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		Type:             m.Type,
		Position:         m.Position,
		CompetenceArea:   m.CompetenceArea,
		Prerequisites:    m.Prerequisites,
		EvidenceRequired: m.EvidenceRequired,
		AutoApprove:      m.AutoApprove,
		PointsReward:     m.PointsReward,
		CoinsReward:      m.CoinsReward,
		Status:           status,
	}
	if resp.Prerequisites == nil {
		resp.Prerequisites = []id.MissionID{}
	}
	for _, q := range m.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{Prompt: q.Prompt, Options: q.Options})
	}
	return resp
}

func toCompletionResponse(r *models.CompletionResult) *CompletionResponse {
	badges := r.BadgesAwarded
	if badges == nil {
		badges = []id.BadgeID{}
	}
	return &CompletionResponse{
		Success:       r.Success,
		Status:        r.Status,
		Score:         r.Score,
		PointsAwarded: r.PointsAwarded,
		CoinsAwarded:  r.CoinsAwarded,
		LevelChanged:  r.LevelChanged,
		Level:         r.Level,
		BadgesAwarded: badges,
		RetryAfter:    r.RetryAfter,
		Message:       r.Message,
	}
}

func toAttemptList(attempts []*models.Attempt) *AttemptListResponse {
	out := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, AttemptResponse{
			ID:          a.ID,
			Outcome:     a.Outcome,
			Score:       a.Score,
			AttemptedAt: a.AttemptedAt,
		})
	}
	return &AttemptListResponse{Attempts: out}
}
