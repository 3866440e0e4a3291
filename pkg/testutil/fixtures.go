package testutil

import (
	"time"

	"github.com/google/uuid"

	"impulsa/internal/eligibility/condition"
	emodels "impulsa/internal/eligibility/models"
	mmodels "impulsa/internal/mission/models"
	nmodels "impulsa/internal/notification/models"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
)

// TestIDs provides pre-generated ids for deterministic test data.
var TestIDs = struct {
	UserID1 id.UserID
	UserID2 id.UserID
}{
	UserID1: id.UserID(uuid.MustParse("11111111-1111-4111-8111-111111111111")),
	UserID2: id.UserID(uuid.MustParse("22222222-2222-4222-8222-222222222222")),
}

// FixedNow is a Monday at noon UTC, far from any day boundary.
var FixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// ProgressBuilder builds user progress records.
type ProgressBuilder struct {
	p *pmodels.UserProgress
}

// NewProgressBuilder starts from a fresh level-1 participant with a random id.
func NewProgressBuilder() *ProgressBuilder {
	userID := id.NewUserID()
	return &ProgressBuilder{
		p: pmodels.New(userID, "Test User", "user-"+userID.String()[:8]+"@example.com", FixedNow),
	}
}

func (b *ProgressBuilder) WithID(userID id.UserID) *ProgressBuilder {
	b.p.ID = userID
	return b
}

func (b *ProgressBuilder) WithEmail(email string) *ProgressBuilder {
	b.p.Email = email
	return b
}

func (b *ProgressBuilder) WithName(name string) *ProgressBuilder {
	b.p.Name = name
	return b
}

func (b *ProgressBuilder) WithPoints(points, level int) *ProgressBuilder {
	b.p.Points = points
	b.p.Level = level
	return b
}

func (b *ProgressBuilder) WithCoins(coins int) *ProgressBuilder {
	b.p.Coins = coins
	return b
}

// WithStreak sets the streak as of day, normalized to midnight UTC.
func (b *ProgressBuilder) WithStreak(current int, day time.Time) *ProgressBuilder {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	b.p.CurrentStreak = current
	b.p.BestStreak = max(b.p.BestStreak, current)
	b.p.LastActivity = &d
	return b
}

func (b *ProgressBuilder) WithCompleted(missionIDs ...id.MissionID) *ProgressBuilder {
	for _, m := range missionIDs {
		b.p.MarkCompleted(m)
	}
	return b
}

func (b *ProgressBuilder) WithFailure(missionID id.MissionID, at time.Time) *ProgressBuilder {
	b.p.Failures[missionID] = at
	return b
}

func (b *ProgressBuilder) WithPendingReview(missionID id.MissionID, at time.Time) *ProgressBuilder {
	b.p.PendingReviews[missionID] = at
	return b
}

func (b *ProgressBuilder) WithDocument(docType string, status pmodels.DocumentStatus) *ProgressBuilder {
	b.p.Documents[docType] = status
	return b
}

func (b *ProgressBuilder) WithBadge(badgeID id.BadgeID, at time.Time) *ProgressBuilder {
	b.p.GrantBadge(badgeID, at)
	return b
}

func (b *ProgressBuilder) Build() *pmodels.UserProgress {
	return b.p.Clone()
}

// MissionBuilder builds catalogue missions.
type MissionBuilder struct {
	m *mmodels.Mission
}

// NewMissionBuilder starts from an auto-approved microvideo worth 50 points.
func NewMissionBuilder(missionID id.MissionID) *MissionBuilder {
	return &MissionBuilder{
		m: &mmodels.Mission{
			ID:             missionID,
			Title:          "Mission " + string(missionID),
			Type:           mmodels.TypeMicrovideo,
			CompetenceArea: "comunicacion",
			Prerequisites:  []id.MissionID{},
			AutoApprove:    true,
			PointsReward:   50,
			CoinsReward:    5,
			CreatedAt:      FixedNow,
		},
	}
}

func (b *MissionBuilder) WithType(t mmodels.Type) *MissionBuilder {
	b.m.Type = t
	return b
}

func (b *MissionBuilder) WithPosition(pos int) *MissionBuilder {
	b.m.Position = pos
	return b
}

func (b *MissionBuilder) WithArea(area string) *MissionBuilder {
	b.m.CompetenceArea = area
	return b
}

func (b *MissionBuilder) WithPrerequisites(missionIDs ...id.MissionID) *MissionBuilder {
	b.m.Prerequisites = missionIDs
	return b
}

func (b *MissionBuilder) WithRewards(points, coins int) *MissionBuilder {
	b.m.PointsReward = points
	b.m.CoinsReward = coins
	return b
}

// WithEvidence requires evidence; review decides whether a reviewer approves it.
func (b *MissionBuilder) WithEvidence(review bool) *MissionBuilder {
	b.m.EvidenceRequired = true
	b.m.AutoApprove = !review
	return b
}

// WithQuiz turns the mission into a quiz whose correct answer is always
// option 0.
func (b *MissionBuilder) WithQuiz(questions int) *MissionBuilder {
	b.m.Type = mmodels.TypeMiniQuiz
	b.m.Questions = make([]mmodels.Question, questions)
	for i := range b.m.Questions {
		b.m.Questions[i] = mmodels.Question{Prompt: "q", Options: []string{"right", "wrong"}, CorrectAnswer: 0}
	}
	return b
}

func (b *MissionBuilder) Build() *mmodels.Mission {
	return b.m
}

// NewRule builds a rule from its JSON condition. Malformed JSON yields a rule
// that fails closed, which is what a corrupted row looks like at runtime.
func NewRule(targetID id.TargetID, ruleID id.RuleID, weight float64, conditionJSON string) *emodels.Rule {
	return &emodels.Rule{
		ID:        ruleID,
		TargetID:  targetID,
		Name:      string(ruleID),
		Weight:    weight,
		Condition: condition.Expr{Node: condition.Decode([]byte(conditionJSON))},
		CreatedAt: FixedNow,
	}
}

// NewTarget builds an event target.
func NewTarget(targetID id.TargetID) *emodels.Target {
	return &emodels.Target{
		ID:        targetID,
		Kind:      emodels.TargetEvent,
		Title:     "Target " + string(targetID),
		CreatedAt: FixedNow,
	}
}

// NewNotification builds an unread inbox entry.
func NewNotification(userID id.UserID, kind nmodels.Kind, at time.Time) *nmodels.Notification {
	return &nmodels.Notification{
		ID:        id.NewNotificationID(),
		UserID:    userID,
		Kind:      kind,
		Title:     "title",
		Message:   "message",
		CreatedAt: at,
	}
}
