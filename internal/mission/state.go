// Package mission holds the per-user mission state machine: status
// derivation, cooldowns, quiz grading and prerequisite graph validation.
// Everything here is pure; persistence and side effects live in the service.
package mission

import (
	"fmt"
	"math"
	"time"

	"impulsa/internal/mission/models"
	pmodels "impulsa/internal/progress/models"
	dErrors "impulsa/pkg/domain-errors"
)

const (
	// CooldownPeriod is how long a failed mission stays locked.
	CooldownPeriod = 7 * 24 * time.Hour
	// PassThreshold is the minimum quiz score, inclusive.
	PassThreshold = 70.0
)

// StatusFor derives the mission's status for the snapshot's user. Only
// direct prerequisites are checked; the graph is validated at authoring.
func StatusFor(snap pmodels.Snapshot, m *models.Mission, now time.Time) models.Status {
	if snap.HasCompleted(m.ID) {
		return models.StatusCompleted
	}
	if snap.Progress != nil {
		if failedAt, ok := snap.Progress.Failures[m.ID]; ok && CooldownFor(failedAt, now).Active {
			return models.StatusLocked
		}
	}
	for _, prereq := range m.Prerequisites {
		if !snap.HasCompleted(prereq) {
			return models.StatusLocked
		}
	}
	if m.NeedsReview() && snap.Progress != nil {
		if _, pending := snap.Progress.PendingReviews[m.ID]; pending {
			return models.StatusInReview
		}
	}
	return models.StatusAvailable
}

// CooldownFor reports the retry window opened by a failure at failedAt.
// RemainingDays is floored and never negative.
func CooldownFor(failedAt, now time.Time) models.Cooldown {
	retryAfter := failedAt.Add(CooldownPeriod)
	remaining := retryAfter.Sub(now)
	if remaining <= 0 {
		return models.Cooldown{RetryAfter: retryAfter}
	}
	return models.Cooldown{
		Active:        true,
		RetryAfter:    retryAfter,
		RemainingDays: int(remaining / (24 * time.Hour)),
	}
}

// CheckAttempt returns an invalid_state error when p cannot attempt m now.
func CheckAttempt(p *pmodels.UserProgress, m *models.Mission, now time.Time) error {
	if p.HasCompleted(m.ID) {
		return dErrors.New(dErrors.CodeInvalidState, "mission already completed")
	}
	if failedAt, ok := p.Failures[m.ID]; ok {
		if cd := CooldownFor(failedAt, now); cd.Active {
			return dErrors.New(dErrors.CodeInvalidState,
				fmt.Sprintf("mission in cooldown until %s", cd.RetryAfter.UTC().Format(time.RFC3339)))
		}
	}
	for _, prereq := range m.Prerequisites {
		if !p.HasCompleted(prereq) {
			return dErrors.New(dErrors.CodeInvalidState,
				fmt.Sprintf("prerequisite %s not completed", prereq))
		}
	}
	if _, pending := p.PendingReviews[m.ID]; pending {
		return dErrors.New(dErrors.CodeInvalidState, "submission already pending review")
	}
	return nil
}

// ScoreQuiz grades answers against the questions. Unanswered questions
// count as wrong. A quiz without questions is a configuration error.
func ScoreQuiz(questions []models.Question, answers map[int]int) (models.QuizScore, error) {
	if len(questions) == 0 {
		return models.QuizScore{}, dErrors.New(dErrors.CodeConfiguration, "quiz has no questions")
	}
	correct := 0
	for i, q := range questions {
		if answer, ok := answers[i]; ok && answer == q.CorrectAnswer {
			correct++
		}
	}
	// Pass is decided on the exact ratio; Score is rounded for display only.
	total := len(questions)
	return models.QuizScore{
		Correct: correct,
		Total:   total,
		Score:   round2(float64(correct) / float64(total) * 100),
		Passed:  float64(correct)*100 >= PassThreshold*float64(total),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
