package condition

import (
	"context"
	"log/slog"
	"slices"

	"impulsa/internal/progress/models"
)

// Score is the outcome of evaluating a node. Value is in [0, 1] and is what
// the calculator weights; Satisfied drives missing-requirement reporting.
type Score struct {
	Satisfied bool
	Value     float64
}

var (
	satisfied   = Score{Satisfied: true, Value: 1}
	unsatisfied = Score{}
)

// Evaluator walks rule trees against a progress snapshot.
type Evaluator struct {
	logger *slog.Logger
}

type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores n against snap. It never fails: malformed or unknown
// nodes score as unsatisfied and are logged.
func (e *Evaluator) Evaluate(ctx context.Context, n Node, snap models.Snapshot) Score {
	return e.eval(ctx, n, snap, 1)
}

func (e *Evaluator) eval(ctx context.Context, n Node, snap models.Snapshot, depth int) Score {
	if depth > MaxDepth {
		e.failClosed(ctx, n, "nesting exceeds maximum depth")
		return unsatisfied
	}

	switch v := n.(type) {
	case And:
		if len(v.Children) == 0 {
			return satisfied
		}
		all := true
		var sum float64
		for _, c := range v.Children {
			s := e.eval(ctx, c, snap, depth+1)
			all = all && s.Satisfied
			sum += s.Value
		}
		return Score{Satisfied: all, Value: sum / float64(len(v.Children))}

	case Or:
		if len(v.Children) == 0 {
			return unsatisfied
		}
		var best Score
		for _, c := range v.Children {
			s := e.eval(ctx, c, snap, depth+1)
			best.Satisfied = best.Satisfied || s.Satisfied
			best.Value = max(best.Value, s.Value)
		}
		return best

	case Missions:
		return exactSet(v.IDs, snap.HasCompleted)

	case Documents:
		return exactSet(v.Types, snap.HasApprovedDocument)

	case Points:
		return threshold(snap.Points(), v.Min)

	case XP:
		return threshold(snap.Points(), v.Min)

	case Streak:
		return threshold(snap.Streak(), v.Min)

	case CompetenceArea:
		return threshold(snap.CompletedByArea[v.Area], v.MinMissions)

	case Malformed:
		e.failClosed(ctx, n, v.Reason)
		return unsatisfied

	default:
		e.failClosed(ctx, n, "unknown condition node")
		return unsatisfied
	}
}

func (e *Evaluator) failClosed(ctx context.Context, n Node, reason string) {
	e.logger.WarnContext(ctx, "condition evaluated as unsatisfied",
		"kind", Kind(n),
		"reason", reason,
	)
}

// exactSet scores the fraction of distinct items present. Only a full match
// is satisfied; partial matches still contribute their fraction.
func exactSet[T comparable](items []T, has func(T) bool) Score {
	distinct := dedupe(slices.Clone(items))
	if len(distinct) == 0 {
		return satisfied
	}
	var hits int
	for _, item := range distinct {
		if has(item) {
			hits++
		}
	}
	value := float64(hits) / float64(len(distinct))
	return Score{Satisfied: hits == len(distinct), Value: value}
}

func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// threshold handles points, xp, streak and competence_area. A minimum of
// zero or less is trivially met.
func threshold(current, minimum int) Score {
	if minimum <= 0 {
		return satisfied
	}
	return Score{
		Satisfied: current >= minimum,
		Value:     max(0, min(1, float64(current)/float64(minimum))),
	}
}
