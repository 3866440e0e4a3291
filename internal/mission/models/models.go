package models

import (
	"time"

	id "impulsa/pkg/domain"
)

// Type is the mission format shown to users.
type Type string

const (
	TypeMicrovideo        Type = "microvideo"
	TypeDownloadableGuide Type = "downloadable_guide"
	TypeMiniQuiz          Type = "mini_quiz"
	TypePracticalTask     Type = "practical_task"
	TypeExpertAdvice      Type = "expert_advice"
	TypeHiddenReward      Type = "hidden_reward"
	TypeLocalCalendar     Type = "local_calendar"
	TypeStandChecklist    Type = "stand_checklist"
	TypePitchSimulator    Type = "pitch_simulator"
	TypeProcessGuide      Type = "process_guide"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeMicrovideo, TypeDownloadableGuide, TypeMiniQuiz, TypePracticalTask,
		TypeExpertAdvice, TypeHiddenReward, TypeLocalCalendar, TypeStandChecklist,
		TypePitchSimulator, TypeProcessGuide:
		return true
	}
	return false
}

// Status is a mission's state for one user. Completed is terminal.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusInReview  Status = "in_review"
	StatusCompleted Status = "completed"
)

// Question is one quiz item. CorrectAnswer indexes Options.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type Mission struct {
	ID               id.MissionID
	Title            string
	Description      string
	Type             Type
	Position         int
	CompetenceArea   string
	Prerequisites    []id.MissionID
	EvidenceRequired bool
	AutoApprove      bool
	PointsReward     int
	CoinsReward      int
	Questions        []Question
	CreatedAt        time.Time
}

// IsQuiz reports whether completion is decided by ScoreQuiz.
func (m *Mission) IsQuiz() bool {
	return m.Type == TypeMiniQuiz
}

// NeedsReview reports whether a submission waits for a reviewer.
func (m *Mission) NeedsReview() bool {
	return m.EvidenceRequired && !m.AutoApprove
}

// Submission is what the user sends when attempting a mission. QuizAnswers
// maps a question index to the chosen option index.
type Submission struct {
	QuizAnswers map[int]int
	Evidence    string
}

// Outcome is the recorded result of one attempt.
type Outcome string

const (
	OutcomePassed   Outcome = "passed"
	OutcomeFailed   Outcome = "failed"
	OutcomeInReview Outcome = "in_review"
	OutcomeRejected Outcome = "rejected"
)

// Attempt is the append-only history of submissions.
type Attempt struct {
	ID          id.AttemptID
	UserID      id.UserID
	MissionID   id.MissionID
	Outcome     Outcome
	Score       *float64
	AttemptedAt time.Time
}

// QuizScore is the graded quiz. Score is a percentage rounded to two decimals.
type QuizScore struct {
	Correct int
	Total   int
	Score   float64
	Passed  bool
}

// Cooldown describes the retry window after a failure.
type Cooldown struct {
	Active        bool
	RetryAfter    time.Time
	RemainingDays int
}

// CompletionResult reports what a completion attempt did to the user.
type CompletionResult struct {
	Success       bool
	Status        Status
	Score         *float64
	PointsAwarded int
	CoinsAwarded  int
	LevelChanged  bool
	Level         int
	BadgesAwarded []id.BadgeID
	RetryAfter    *time.Time
	Message       string
}

// MissionWithStatus pairs a catalogue entry with the caller's state.
type MissionWithStatus struct {
	Mission *Mission
	Status  Status
}

// CooldownStatus answers "can I try this mission now?".
type CooldownStatus struct {
	CanAttempt    bool
	RetryAfter    *time.Time
	RemainingDays int
	Message       string
}
