// Package eligibility turns weighted rule sets into eligibility verdicts.
package eligibility

import (
	"context"
	"math"
	"slices"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/models"
	pmodels "impulsa/internal/progress/models"
)

const (
	eligibleThreshold = 100.0
	partialThreshold  = 50.0
)

// Verdict is the user-independent part of a Result.
type Verdict struct {
	Status     models.Status
	Percentage float64
	Missing    []models.MissingRequirement
}

// Calculator combines rule scores into a weighted percentage.
type Calculator struct {
	evaluator *condition.Evaluator
}

func NewCalculator(evaluator *condition.Evaluator) *Calculator {
	if evaluator == nil {
		evaluator = condition.NewEvaluator()
	}
	return &Calculator{evaluator: evaluator}
}

// Calculate scores rules against snap.
//
// A target without rules is open to everyone. Otherwise the percentage is
// the weight-averaged rule score; a zero total weight yields 0. The status
// band is chosen on the unrounded percentage.
func (c *Calculator) Calculate(ctx context.Context, snap pmodels.Snapshot, rules []*models.Rule) Verdict {
	if len(rules) == 0 {
		return Verdict{Status: models.StatusEligible, Percentage: 100, Missing: []models.MissingRequirement{}}
	}

	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b *models.Rule) int {
		return a.Position - b.Position
	})

	var weighted, totalWeight float64
	missing := make([]models.MissingRequirement, 0)
	for _, rule := range ordered {
		score := c.evaluator.Evaluate(ctx, rule.Condition.Node, snap)
		weight := max(0, rule.Weight)
		weighted += score.Value * weight
		totalWeight += weight

		if !score.Satisfied {
			missing = append(missing, models.MissingRequirement{
				RuleID:      rule.ID,
				Name:        rule.Name,
				Description: rule.Description,
				Percentage:  round2(score.Value * 100),
			})
		}
	}

	if totalWeight == 0 {
		return Verdict{Status: models.StatusNotEligible, Percentage: 0, Missing: missing}
	}

	pct := weighted / totalWeight * 100
	return Verdict{Status: StatusFor(pct), Percentage: round2(pct), Missing: missing}
}

// StatusFor maps a percentage onto its band.
func StatusFor(pct float64) models.Status {
	switch {
	case pct >= eligibleThreshold:
		return models.StatusEligible
	case pct >= partialThreshold:
		return models.StatusPartial
	default:
		return models.StatusNotEligible
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
