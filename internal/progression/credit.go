package progression

import (
	"time"

	pmodels "impulsa/internal/progress/models"
)

// LevelChange is the level transition caused by a credit. From equals To
// when nothing changed.
type LevelChange struct {
	From int
	To   int
}

func (c LevelChange) Changed() bool { return c.From != c.To }

// Credit applies a completion reward to p: points and coins, the streak for
// today (a calendar day from domain.CalendarDay) and the recomputed level.
// The stored level is compared against the new placement so a level-up is
// reported once per transition.
func Credit(p *pmodels.UserProgress, points, coins int, today time.Time, table *LevelTable) LevelChange {
	p.Points += points
	p.Coins += coins
	p.CurrentStreak, p.BestStreak = UpdateStreak(p.CurrentStreak, p.BestStreak, p.LastActivity, today)
	p.LastActivity = &today
	return Relevel(p, table)
}

// Relevel recomputes p.Level from its points.
func Relevel(p *pmodels.UserProgress, table *LevelTable) LevelChange {
	change := LevelChange{From: p.Level}
	p.Level = table.LevelFor(p.Points).Level.Number
	change.To = p.Level
	return change
}
