package progression

import (
	"fmt"
	"sort"

	"impulsa/internal/platform/config"
	dErrors "impulsa/pkg/domain-errors"
)

// Level is one rung of the level table.
type Level struct {
	Number    int
	Name      string
	Threshold int
}

// Placement locates a point total inside the table. NextThreshold is nil at
// the top level.
type Placement struct {
	Level         Level
	PointsInLevel int
	NextThreshold *int
}

// PointsToNext returns the points still needed, or 0 at the top level.
func (p Placement) PointsToNext(points int) int {
	if p.NextThreshold == nil {
		return 0
	}
	return max(0, *p.NextThreshold-points)
}

// LevelTable is an immutable, validated list of levels.
type LevelTable struct {
	levels []Level
}

// NewLevelTable requires a non-empty table whose first threshold is 0 and
// whose thresholds strictly ascend. Levels are numbered from 1 in order when
// Number is left at zero.
func NewLevelTable(levels []Level) (*LevelTable, error) {
	if len(levels) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "level table is empty")
	}
	out := make([]Level, len(levels))
	copy(out, levels)
	if out[0].Threshold != 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "first level threshold must be 0")
	}
	for i := range out {
		if out[i].Number == 0 {
			out[i].Number = i + 1
		}
		if i > 0 && out[i].Threshold <= out[i-1].Threshold {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("level %d threshold %d does not exceed previous threshold %d",
					out[i].Number, out[i].Threshold, out[i-1].Threshold))
		}
	}
	return &LevelTable{levels: out}, nil
}

// DefaultLevelTable is the program's standard five-level ladder.
func DefaultLevelTable() *LevelTable {
	t, err := NewLevelTable([]Level{
		{Number: 1, Name: "emprendedor_novato", Threshold: 0},
		{Number: 2, Name: "emprendedor_junior", Threshold: 100},
		{Number: 3, Name: "emprendedor_senior", Threshold: 250},
		{Number: 4, Name: "emprendedor_experto", Threshold: 500},
		{Number: 5, Name: "emprendedor_master", Threshold: 1000},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// FromCatalog builds the table from authored levels, falling back to the
// default ladder when the catalogue defines none.
func FromCatalog(specs []config.LevelSpec) (*LevelTable, error) {
	if len(specs) == 0 {
		return DefaultLevelTable(), nil
	}
	levels := make([]Level, 0, len(specs))
	for i, spec := range specs {
		if spec.Level != 0 && spec.Level != i+1 {
			return nil, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("level %q is numbered %d but sits at position %d", spec.Name, spec.Level, i+1))
		}
		levels = append(levels, Level{Number: spec.Level, Name: spec.Name, Threshold: spec.Threshold})
	}
	return NewLevelTable(levels)
}

// LevelFor returns the highest level whose threshold is <= points. Negative
// totals sit in the first level.
func (t *LevelTable) LevelFor(points int) Placement {
	idx := sort.Search(len(t.levels), func(i int) bool {
		return t.levels[i].Threshold > points
	}) - 1
	if idx < 0 {
		idx = 0
	}
	lvl := t.levels[idx]
	placement := Placement{
		Level:         lvl,
		PointsInLevel: max(0, points-lvl.Threshold),
	}
	if idx+1 < len(t.levels) {
		next := t.levels[idx+1].Threshold
		placement.NextThreshold = &next
	}
	return placement
}

// Levels returns a copy of the table.
func (t *LevelTable) Levels() []Level {
	out := make([]Level, len(t.levels))
	copy(out, t.levels)
	return out
}
