package models

import (
	"strconv"
	"strings"

	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/validation"
)

// CompleteMissionRequest is the body of POST /missions/{id}/complete.
// Quiz answers are keyed by the question index as a string: {"0": 1}.
type CompleteMissionRequest struct {
	QuizAnswers map[string]int `json:"quiz_answers"`
	Evidence    string         `json:"evidence" validate:"max=4096"`
}

func (r *CompleteMissionRequest) Normalize() {
	r.Evidence = strings.TrimSpace(r.Evidence)
}

func (r *CompleteMissionRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	for key, answer := range r.QuizAnswers {
		if idx, err := strconv.Atoi(key); err != nil || idx < 0 {
			return dErrors.New(dErrors.CodeValidation, "quiz_answers keys must be question indexes")
		}
		if answer < 0 {
			return dErrors.New(dErrors.CodeValidation, "quiz answers must be option indexes")
		}
	}
	return nil
}

// ToSubmission converts validated input into a domain submission.
func (r *CompleteMissionRequest) ToSubmission() Submission {
	answers := make(map[int]int, len(r.QuizAnswers))
	for key, answer := range r.QuizAnswers {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		answers[idx] = answer
	}
	return Submission{QuizAnswers: answers, Evidence: r.Evidence}
}

type QuestionRequest struct {
	Prompt        string   `json:"prompt" validate:"required,notblank"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
}

type CreateMissionRequest struct {
	ID               string            `json:"id" validate:"required,slug,max=64"`
	Title            string            `json:"title" validate:"required,notblank,max=200"`
	Description      string            `json:"description" validate:"max=2000"`
	Type             string            `json:"type" validate:"required"`
	Position         int               `json:"position" validate:"gte=0"`
	CompetenceArea   string            `json:"competence_area" validate:"max=64"`
	Prerequisites    []string          `json:"prerequisites" validate:"dive,required,slug"`
	EvidenceRequired bool              `json:"evidence_required"`
	AutoApprove      bool              `json:"auto_approve"`
	Points           int               `json:"points" validate:"gte=0"`
	Coins            int               `json:"coins" validate:"gte=0"`
	Questions        []QuestionRequest `json:"questions" validate:"dive"`
}

func (r *CreateMissionRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.CompetenceArea = strings.ToLower(strings.TrimSpace(r.CompetenceArea))
	for i := range r.Prerequisites {
		r.Prerequisites[i] = strings.TrimSpace(r.Prerequisites[i])
	}
}

func (r *CreateMissionRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if !Type(r.Type).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown mission type: "+r.Type)
	}
	for i, q := range r.Questions {
		if q.CorrectAnswer >= len(q.Options) {
			return dErrors.New(dErrors.CodeValidation,
				"question "+strconv.Itoa(i)+" correct_answer is out of range")
		}
	}
	return nil
}

// ReviewRequest is the admin decision on a pending evidence submission.
type ReviewRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	MissionID string `json:"mission_id" validate:"required,slug"`
	Approved  *bool  `json:"approved" validate:"required"`
}

func (r *ReviewRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.MissionID = strings.TrimSpace(r.MissionID)
}

func (r *ReviewRequest) Validate() error {
	return validation.Validate(r)
}
