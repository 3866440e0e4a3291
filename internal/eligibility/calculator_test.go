package eligibility

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/models"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
)

func newCalculator() *Calculator {
	return NewCalculator(condition.NewEvaluator(
		condition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	))
}

func rule(ruleID string, position int, weight float64, n condition.Node) *models.Rule {
	return &models.Rule{
		ID:          id.RuleID(ruleID),
		Name:        ruleID,
		Description: "describe " + ruleID,
		Weight:      weight,
		Condition:   condition.Expr{Node: n},
		Position:    position,
	}
}

func snapshot(points int, completed ...id.MissionID) pmodels.Snapshot {
	p := pmodels.New(id.NewUserID(), "Ana", "ana@example.com", time.Now())
	p.Points = points
	for _, m := range completed {
		p.MarkCompleted(m)
	}
	return pmodels.NewSnapshot(p, nil)
}

func TestCalculateNoRulesIsEligible(t *testing.T) {
	v := newCalculator().Calculate(context.Background(), snapshot(0), nil)
	assert.Equal(t, models.StatusEligible, v.Status)
	assert.Equal(t, 100.0, v.Percentage)
	assert.Empty(t, v.Missing)
}

func TestCalculateEqualWeightsHalfSatisfiedIsPartial(t *testing.T) {
	rules := []*models.Rule{
		rule("points", 0, 1.0, condition.Points{Min: 100}),
		rule("streak", 1, 1.0, condition.Streak{Min: 5}),
	}

	v := newCalculator().Calculate(context.Background(), snapshot(150), rules)

	assert.Equal(t, 50.0, v.Percentage)
	assert.Equal(t, models.StatusPartial, v.Status)
	require.Len(t, v.Missing, 1)
	assert.Equal(t, id.RuleID("streak"), v.Missing[0].RuleID)
	assert.Equal(t, 0.0, v.Missing[0].Percentage)
}

func TestCalculateWeightedAverage(t *testing.T) {
	rules := []*models.Rule{
		rule("ruta", 0, 0.5, condition.Missions{IDs: []id.MissionID{"a", "b", "c"}}),
		rule("ruc", 1, 0.3, condition.Documents{Types: []string{"ruc"}}),
		rule("puntos", 2, 0.2, condition.Points{Min: 150}),
	}

	v := newCalculator().Calculate(context.Background(), snapshot(75, "a", "b"), rules)

	// 0.5*(2/3) + 0.3*0 + 0.2*0.5 = 0.4333...
	assert.Equal(t, 43.33, v.Percentage)
	assert.Equal(t, models.StatusNotEligible, v.Status)
	require.Len(t, v.Missing, 3)
	assert.Equal(t, 66.67, v.Missing[0].Percentage)
	assert.Equal(t, "describe ruta", v.Missing[0].Description)
	assert.Equal(t, 50.0, v.Missing[2].Percentage)
}

func TestCalculateAllSatisfiedIsEligible(t *testing.T) {
	rules := []*models.Rule{
		rule("ruta", 0, 0.5, condition.Missions{IDs: []id.MissionID{"a"}}),
		rule("puntos", 1, 0.3, condition.Points{Min: 10}),
		rule("xp", 2, 0.2, condition.XP{Min: 10}),
	}
	v := newCalculator().Calculate(context.Background(), snapshot(10, "a"), rules)
	assert.Equal(t, models.StatusEligible, v.Status)
	assert.Equal(t, 100.0, v.Percentage)
	assert.Empty(t, v.Missing)
}

func TestCalculateZeroTotalWeight(t *testing.T) {
	rules := []*models.Rule{
		rule("a", 0, 0, condition.Points{Min: 0}),
		rule("b", 1, -1, condition.Points{Min: 0}),
	}
	v := newCalculator().Calculate(context.Background(), snapshot(0), rules)
	assert.Equal(t, models.StatusNotEligible, v.Status)
	assert.Zero(t, v.Percentage)
}

func TestCalculateMissingFollowsRuleOrder(t *testing.T) {
	rules := []*models.Rule{
		rule("third", 2, 1, condition.Streak{Min: 1}),
		rule("first", 0, 1, condition.Streak{Min: 1}),
		rule("second", 1, 1, condition.Malformed{Reason: "corrupt"}),
	}
	v := newCalculator().Calculate(context.Background(), snapshot(0), rules)

	require.Len(t, v.Missing, 3)
	assert.Equal(t, id.RuleID("first"), v.Missing[0].RuleID)
	assert.Equal(t, id.RuleID("second"), v.Missing[1].RuleID)
	assert.Equal(t, id.RuleID("third"), v.Missing[2].RuleID)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, models.StatusEligible, StatusFor(100))
	assert.Equal(t, models.StatusPartial, StatusFor(99.99))
	assert.Equal(t, models.StatusPartial, StatusFor(50))
	assert.Equal(t, models.StatusNotEligible, StatusFor(49.99))
}
