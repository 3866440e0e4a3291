package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "impulsa/pkg/domain"
)

func TestMarkCompletedKeepsOrderAndRejectsDuplicates(t *testing.T) {
	p := New(id.NewUserID(), "Ana", "ana@example.com", time.Now())

	require.True(t, p.MarkCompleted("historia-emprendedora"))
	require.True(t, p.MarkCompleted("fundamentos-quiz"))
	assert.False(t, p.MarkCompleted("historia-emprendedora"))

	assert.Equal(t, []id.MissionID{"historia-emprendedora", "fundamentos-quiz"}, p.CompletedMissions)
}

func TestGrantBadgeIsInsertIfAbsent(t *testing.T) {
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := New(id.NewUserID(), "Ana", "ana@example.com", first)

	assert.True(t, p.GrantBadge("primer-paso", first))
	assert.False(t, p.GrantBadge("primer-paso", first.Add(time.Hour)))
	assert.Equal(t, first, p.Badges["primer-paso"])
}

func TestBadgeIDsOrderedByAwardTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := New(id.NewUserID(), "Ana", "ana@example.com", base)
	p.GrantBadge("zeta", base)
	p.GrantBadge("alfa", base.Add(time.Minute))
	p.GrantBadge("beta", base)

	assert.Equal(t, []id.BadgeID{"beta", "zeta", "alfa"}, p.BadgeIDs())
}

func TestCloneIsDeep(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := New(id.NewUserID(), "Ana", "ana@example.com", day)
	p.LastActivity = &day
	p.MarkCompleted("historia-emprendedora")
	p.Documents["ruc"] = DocumentApproved

	c := p.Clone()
	c.MarkCompleted("fundamentos-quiz")
	c.Documents["ruc"] = DocumentRejected
	*c.LastActivity = day.AddDate(0, 0, 1)

	assert.Len(t, p.CompletedMissions, 1)
	assert.Equal(t, DocumentApproved, p.Documents["ruc"])
	assert.Equal(t, day, *p.LastActivity)
}

func TestNewSnapshotCountsAreas(t *testing.T) {
	areaOf := map[id.MissionID]string{
		"tramites-legales":      "legal",
		"plan-de-negocio":       "finanzas",
		"historia-emprendedora": "",
		"contratos":             "legal",
	}
	p := New(id.NewUserID(), "Ana", "ana@example.com", time.Now())
	p.MarkCompleted("tramites-legales")
	p.MarkCompleted("historia-emprendedora")
	p.Documents["ruc"] = DocumentApproved
	p.Documents["rise"] = DocumentSubmitted

	snap := NewSnapshot(p, areaOf)

	assert.Equal(t, 1, snap.CompletedByArea["legal"])
	assert.Equal(t, 2, snap.MissionsByArea["legal"])
	assert.Equal(t, 1, snap.MissionsByArea["finanzas"])
	assert.True(t, snap.HasApprovedDocument("ruc"))
	assert.False(t, snap.HasApprovedDocument("rise"))
	assert.Equal(t, 2, snap.CompletedCount())
}

func TestNilSnapshotProgress(t *testing.T) {
	snap := NewSnapshot(nil, nil)
	assert.Zero(t, snap.Points())
	assert.Zero(t, snap.Streak())
	assert.False(t, snap.HasCompleted("x"))
}
