package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impulsa/internal/platform/config"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

var areas = map[id.MissionID]string{
	"video": "comunicacion",
	"red":   "comunicacion",
	"guia":  "legal",
}

func TestRegistryCoversEveryCondition(t *testing.T) {
	for _, c := range []Condition{
		FirstMission, Complete5Missions, Complete10Missions, Complete25Missions,
		Reach100Points, Reach500Points, Reach1000Points,
		Streak3Days, Streak7Days, Streak30Days, CompetenceAreaComplete,
	} {
		assert.Contains(t, registry, c)
	}
	assert.Len(t, Conditions(), len(registry))
}

func TestNewCatalogue(t *testing.T) {
	tests := []struct {
		name   string
		badges []Badge
		want   string
	}{
		{"unknown tag", []Badge{{ID: "x", Condition: "complete_3_missions"}}, `badge x has unknown condition "complete_3_missions"`},
		{"area tag without area", []Badge{{ID: "x", Condition: CompetenceAreaComplete}}, "badge x needs a competence area"},
		{"duplicate id", []Badge{{ID: "x", Condition: FirstMission}, {ID: "x", Condition: Streak3Days}}, "duplicate badge x"},
		{"negative coins", []Badge{{ID: "x", Condition: FirstMission, CoinsReward: -1}}, "badge x has a negative reward"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalogue(tt.badges)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
			assert.Equal(t, tt.want, err.Error())
		})
	}

	t.Run("embedded catalogue", func(t *testing.T) {
		cat, err := config.LoadCatalog("")
		require.NoError(t, err)
		c, err := FromCatalog(cat.Badges)
		require.NoError(t, err)
		assert.NotEmpty(t, c.Badges())
	})
}

func TestSweep(t *testing.T) {
	catalogue, err := NewCatalogue([]Badge{
		{ID: "primer-paso", Condition: FirstMission, CoinsReward: 10},
		{ID: "cien", Condition: Reach100Points, CoinsReward: 20},
		{ID: "racha", Condition: Streak3Days, CoinsReward: 5},
		{ID: "comunicador", Condition: CompetenceAreaComplete, Area: "comunicacion", CoinsReward: 15},
		{ID: "vacia", Condition: CompetenceAreaComplete, Area: "finanzas"},
	})
	require.NoError(t, err)
	engine := NewEngine(catalogue)

	p := pmodels.New(id.NewUserID(), "Ana", "ana@example.com", now)
	p.MarkCompleted("video")
	p.MarkCompleted("red")
	p.Points = 120
	p.CurrentStreak = 2

	awards := engine.Sweep(p, pmodels.NewSnapshot(p, areas), now)
	ids := make([]id.BadgeID, 0, len(awards))
	for _, a := range awards {
		ids = append(ids, a.BadgeID)
	}
	assert.Equal(t, []id.BadgeID{"primer-paso", "cien", "comunicador"}, ids)
	assert.Equal(t, 45, p.Coins)
	assert.Equal(t, now, p.Badges["cien"])

	t.Run("second sweep awards nothing", func(t *testing.T) {
		again := engine.Sweep(p, pmodels.NewSnapshot(p, areas), now.Add(time.Hour))
		assert.Empty(t, again)
		assert.Equal(t, 45, p.Coins)
		assert.Equal(t, now, p.Badges["cien"])
	})

	t.Run("area with no missions is never complete", func(t *testing.T) {
		assert.False(t, p.HasBadge("vacia"))
	})

	t.Run("later progress awards only the new badge", func(t *testing.T) {
		p.CurrentStreak = 3
		awards := engine.Sweep(p, pmodels.NewSnapshot(p, areas), now.Add(24*time.Hour))
		require.Len(t, awards, 1)
		assert.Equal(t, id.BadgeID("racha"), awards[0].BadgeID)
		assert.Equal(t, 50, p.Coins)
	})
}
