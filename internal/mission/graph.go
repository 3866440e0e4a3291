package mission

import (
	"fmt"
	"strings"

	"impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

const (
	white = iota
	grey
	black
)

// ValidateGraph rejects duplicate ids, unknown or self prerequisites, and
// cycles in the prerequisite graph. Traversal is iterative so a deep chain
// cannot exhaust the stack.
func ValidateGraph(missions []*models.Mission) error {
	byID := make(map[id.MissionID]*models.Mission, len(missions))
	for _, m := range missions {
		if _, dup := byID[m.ID]; dup {
			return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("duplicate mission %s", m.ID))
		}
		byID[m.ID] = m
	}
	for _, m := range missions {
		for _, prereq := range m.Prerequisites {
			if prereq == m.ID {
				return dErrors.New(dErrors.CodeConfiguration,
					fmt.Sprintf("mission %s lists itself as a prerequisite", m.ID))
			}
			if _, ok := byID[prereq]; !ok {
				return dErrors.New(dErrors.CodeConfiguration,
					fmt.Sprintf("mission %s has unknown prerequisite %s", m.ID, prereq))
			}
		}
	}

	colour := make(map[id.MissionID]int, len(missions))
	for _, root := range missions {
		if colour[root.ID] != white {
			continue
		}
		stack := []frame{{id: root.ID}}
		colour[root.ID] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			prereqs := byID[top.id].Prerequisites
			if top.next == len(prereqs) {
				colour[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := prereqs[top.next]
			top.next++
			switch colour[child] {
			case grey:
				return dErrors.New(dErrors.CodeConfiguration, "prerequisite cycle: "+cyclePath(stack, child))
			case white:
				colour[child] = grey
				stack = append(stack, frame{id: child})
			}
		}
	}
	return nil
}

type frame struct {
	id   id.MissionID
	next int
}

// cyclePath renders the grey chain from closing back to itself.
func cyclePath(stack []frame, closing id.MissionID) string {
	start := 0
	for i, f := range stack {
		if f.id == closing {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		parts = append(parts, f.id.String())
	}
	parts = append(parts, closing.String())
	return strings.Join(parts, " -> ")
}
