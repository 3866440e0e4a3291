package models

import (
	"maps"
	"slices"
	"time"

	id "impulsa/pkg/domain"
)

// DocumentStatus is the review state of a document the user uploaded.
type DocumentStatus string

const (
	DocumentSubmitted DocumentStatus = "submitted"
	DocumentApproved  DocumentStatus = "approved"
	DocumentRejected  DocumentStatus = "rejected"
)

// IsValid reports whether the status is a known value.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentSubmitted, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// UserProgress is the aggregate every progression rule reads from. Mutations
// happen only inside a store Execute callback so concurrent completions for
// the same user serialize.
type UserProgress struct {
	ID    id.UserID
	Name  string
	Email string

	Points        int
	Coins         int
	CurrentStreak int
	BestStreak    int
	// LastActivity is a calendar day (midnight UTC) in the program timezone.
	LastActivity *time.Time
	Level        int

	// CompletedMissions keeps completion order and never holds duplicates.
	CompletedMissions []id.MissionID
	// Failures holds the last failed attempt per mission, used for cooldowns.
	Failures map[id.MissionID]time.Time
	// PendingReviews holds submissions waiting for a reviewer.
	PendingReviews map[id.MissionID]time.Time
	// Documents maps a document type (e.g. "ruc") to its review state.
	Documents map[string]DocumentStatus
	Badges    map[id.BadgeID]time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds an empty progress record at level 1.
func New(userID id.UserID, name, email string, now time.Time) *UserProgress {
	p := &UserProgress{
		ID:        userID,
		Name:      name,
		Email:     email,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Normalize()
	return p
}

// Normalize allocates nil maps so callers never branch on them.
func (p *UserProgress) Normalize() {
	if p.Failures == nil {
		p.Failures = make(map[id.MissionID]time.Time)
	}
	if p.PendingReviews == nil {
		p.PendingReviews = make(map[id.MissionID]time.Time)
	}
	if p.Documents == nil {
		p.Documents = make(map[string]DocumentStatus)
	}
	if p.Badges == nil {
		p.Badges = make(map[id.BadgeID]time.Time)
	}
	if p.Level < 1 {
		p.Level = 1
	}
}

// Clone returns a deep copy.
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}
	c := *p
	if p.LastActivity != nil {
		last := *p.LastActivity
		c.LastActivity = &last
	}
	c.CompletedMissions = slices.Clone(p.CompletedMissions)
	c.Failures = maps.Clone(p.Failures)
	c.PendingReviews = maps.Clone(p.PendingReviews)
	c.Documents = maps.Clone(p.Documents)
	c.Badges = maps.Clone(p.Badges)
	c.Normalize()
	return &c
}

func (p *UserProgress) HasCompleted(missionID id.MissionID) bool {
	return slices.Contains(p.CompletedMissions, missionID)
}

// MarkCompleted appends the mission and reports false if it was already there.
func (p *UserProgress) MarkCompleted(missionID id.MissionID) bool {
	if p.HasCompleted(missionID) {
		return false
	}
	p.CompletedMissions = append(p.CompletedMissions, missionID)
	return true
}

func (p *UserProgress) HasBadge(badgeID id.BadgeID) bool {
	_, ok := p.Badges[badgeID]
	return ok
}

// GrantBadge records the badge unless already held and reports whether it
// was newly granted.
func (p *UserProgress) GrantBadge(badgeID id.BadgeID, at time.Time) bool {
	if p.HasBadge(badgeID) {
		return false
	}
	if p.Badges == nil {
		p.Badges = make(map[id.BadgeID]time.Time)
	}
	p.Badges[badgeID] = at
	return true
}

// BadgeIDs returns held badges ordered by award time, then id.
func (p *UserProgress) BadgeIDs() []id.BadgeID {
	ids := slices.Collect(maps.Keys(p.Badges))
	slices.SortFunc(ids, func(a, b id.BadgeID) int {
		if c := p.Badges[a].Compare(p.Badges[b]); c != 0 {
			return c
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return ids
}

// Snapshot is a read-only view of a user's progress plus the derived counts
// the condition evaluator and badge engine need.
type Snapshot struct {
	Progress *UserProgress
	// CompletedByArea counts completed missions per competence area.
	CompletedByArea map[string]int
	// MissionsByArea counts catalogue missions per competence area.
	MissionsByArea map[string]int
}

// NewSnapshot derives area counts from areaOf, which maps every catalogue
// mission to its competence area.
func NewSnapshot(p *UserProgress, areaOf map[id.MissionID]string) Snapshot {
	snap := Snapshot{
		Progress:        p,
		CompletedByArea: make(map[string]int),
		MissionsByArea:  make(map[string]int),
	}
	for _, area := range areaOf {
		if area != "" {
			snap.MissionsByArea[area]++
		}
	}
	if p == nil {
		return snap
	}
	for _, missionID := range p.CompletedMissions {
		if area := areaOf[missionID]; area != "" {
			snap.CompletedByArea[area]++
		}
	}
	return snap
}

func (s Snapshot) HasCompleted(missionID id.MissionID) bool {
	return s.Progress != nil && s.Progress.HasCompleted(missionID)
}

func (s Snapshot) HasApprovedDocument(docType string) bool {
	return s.Progress != nil && s.Progress.Documents[docType] == DocumentApproved
}

// Points returns cumulative points, zero for a missing progress record.
func (s Snapshot) Points() int {
	if s.Progress == nil {
		return 0
	}
	return s.Progress.Points
}

func (s Snapshot) Streak() int {
	if s.Progress == nil {
		return 0
	}
	return s.Progress.CurrentStreak
}

func (s Snapshot) CompletedCount() int {
	if s.Progress == nil {
		return 0
	}
	return len(s.Progress.CompletedMissions)
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int
	UserID id.UserID
	Name   string
	Points int
	Level  int
}
