package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
)

func TestCredit(t *testing.T) {
	table := DefaultLevelTable()

	t.Run("crossing a threshold reports one level change", func(t *testing.T) {
		p := pmodels.New(id.NewUserID(), "Ana", "ana@example.com", day(2025, 3, 1))
		p.Points = 90

		change := Credit(p, 20, 5, day(2025, 3, 10), table)
		assert.True(t, change.Changed())
		assert.Equal(t, LevelChange{From: 1, To: 2}, change)
		assert.Equal(t, 110, p.Points)
		assert.Equal(t, 5, p.Coins)
		assert.Equal(t, 1, p.CurrentStreak)

		again := Credit(p, 10, 0, day(2025, 3, 10), table)
		assert.False(t, again.Changed())
		assert.Equal(t, 1, p.CurrentStreak, "same day does not extend the streak")
	})

	t.Run("consecutive days extend the streak", func(t *testing.T) {
		p := pmodels.New(id.NewUserID(), "Luis", "luis@example.com", day(2025, 3, 1))
		Credit(p, 10, 0, day(2025, 3, 10), table)
		Credit(p, 10, 0, day(2025, 3, 11), table)
		assert.Equal(t, 2, p.CurrentStreak)
		assert.Equal(t, 2, p.BestStreak)
		assert.Equal(t, day(2025, 3, 11), *p.LastActivity)
	})
}

func TestRelevel(t *testing.T) {
	p := &pmodels.UserProgress{Points: 1200, Level: 1}
	change := Relevel(p, DefaultLevelTable())
	assert.Equal(t, LevelChange{From: 1, To: 5}, change)
	assert.Equal(t, 5, p.Level)
}
