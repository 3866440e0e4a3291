// Package badge awards achievement badges. Each badge carries one tag from a
// closed vocabulary; the tag selects a predicate from the registry.
package badge

import (
	"fmt"
	"slices"
	"time"

	"impulsa/internal/platform/config"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

// Condition is a badge tag.
type Condition string

const (
	FirstMission           Condition = "first_mission"
	Complete5Missions      Condition = "complete_5_missions"
	Complete10Missions     Condition = "complete_10_missions"
	Complete25Missions     Condition = "complete_25_missions"
	Reach100Points         Condition = "reach_100_points"
	Reach500Points         Condition = "reach_500_points"
	Reach1000Points        Condition = "reach_1000_points"
	Streak3Days            Condition = "streak_3_days"
	Streak7Days            Condition = "streak_7_days"
	Streak30Days           Condition = "streak_30_days"
	CompetenceAreaComplete Condition = "competence_area_complete"
)

// Predicate decides whether a badge is earned. area is empty except for
// area-scoped tags.
type Predicate func(snap pmodels.Snapshot, area string) bool

func completed(n int) Predicate {
	return func(snap pmodels.Snapshot, _ string) bool { return snap.CompletedCount() >= n }
}

func points(n int) Predicate {
	return func(snap pmodels.Snapshot, _ string) bool { return snap.Points() >= n }
}

func streak(n int) Predicate {
	return func(snap pmodels.Snapshot, _ string) bool { return snap.Streak() >= n }
}

func areaComplete(snap pmodels.Snapshot, area string) bool {
	total := snap.MissionsByArea[area]
	return total > 0 && snap.CompletedByArea[area] >= total
}

var registry = map[Condition]Predicate{
	FirstMission:           completed(1),
	Complete5Missions:      completed(5),
	Complete10Missions:     completed(10),
	Complete25Missions:     completed(25),
	Reach100Points:         points(100),
	Reach500Points:         points(500),
	Reach1000Points:        points(1000),
	Streak3Days:            streak(3),
	Streak7Days:            streak(7),
	Streak30Days:           streak(30),
	CompetenceAreaComplete: areaComplete,
}

// Conditions lists the supported tags in sorted order.
func Conditions() []Condition {
	out := make([]Condition, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// NeedsArea reports whether the tag is scoped to a competence area.
func (c Condition) NeedsArea() bool {
	return c == CompetenceAreaComplete
}

type Badge struct {
	ID          id.BadgeID
	Title       string
	Description string
	Icon        string
	Condition   Condition
	Area        string
	CoinsReward int
}

// Award is a badge granted during a sweep.
type Award struct {
	BadgeID  id.BadgeID
	Title    string
	Coins    int
	EarnedAt time.Time
}

// Catalogue is a validated, ordered badge list.
type Catalogue struct {
	badges []Badge
}

// NewCatalogue rejects unknown tags, area tags without an area, negative
// rewards and duplicate ids.
func NewCatalogue(badges []Badge) (*Catalogue, error) {
	seen := make(map[id.BadgeID]struct{}, len(badges))
	for _, b := range badges {
		if _, dup := seen[b.ID]; dup {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("duplicate badge %s", b.ID))
		}
		seen[b.ID] = struct{}{}
		if _, ok := registry[b.Condition]; !ok {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("badge %s has unknown condition %q", b.ID, b.Condition))
		}
		if b.Condition.NeedsArea() && b.Area == "" {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("badge %s needs a competence area", b.ID))
		}
		if b.CoinsReward < 0 {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("badge %s has a negative reward", b.ID))
		}
	}
	return &Catalogue{badges: slices.Clone(badges)}, nil
}

// FromCatalog builds a catalogue from authored specs.
func FromCatalog(specs []config.BadgeSpec) (*Catalogue, error) {
	badges := make([]Badge, 0, len(specs))
	for _, spec := range specs {
		badgeID, err := id.ParseBadgeID(spec.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "invalid badge id")
		}
		badges = append(badges, Badge{
			ID:          badgeID,
			Title:       spec.Title,
			Description: spec.Description,
			Icon:        spec.Icon,
			Condition:   Condition(spec.Condition),
			Area:        spec.Area,
			CoinsReward: spec.Coins,
		})
	}
	return NewCatalogue(badges)
}

func (c *Catalogue) Badges() []Badge {
	return slices.Clone(c.badges)
}

// Engine sweeps a catalogue against a user's progress.
type Engine struct {
	catalogue *Catalogue
}

func NewEngine(catalogue *Catalogue) *Engine {
	if catalogue == nil {
		panic("badge.NewEngine: catalogue is required")
	}
	return &Engine{catalogue: catalogue}
}

func (e *Engine) Catalogue() *Catalogue { return e.catalogue }

// Sweep grants every satisfied badge p does not hold yet and credits its
// coins. It must run inside the progress store's atomic update; GrantBadge
// is the insert-if-absent guard, so a second sweep awards nothing.
func (e *Engine) Sweep(p *pmodels.UserProgress, snap pmodels.Snapshot, now time.Time) []Award {
	var awards []Award
	for _, b := range e.catalogue.badges {
		if p.HasBadge(b.ID) {
			continue
		}
		if !registry[b.Condition](snap, b.Area) {
			continue
		}
		if !p.GrantBadge(b.ID, now) {
			continue
		}
		p.Coins += b.CoinsReward
		awards = append(awards, Award{
			BadgeID:  b.ID,
			Title:    b.Title,
			Coins:    b.CoinsReward,
			EarnedAt: now,
		})
	}
	return awards
}
