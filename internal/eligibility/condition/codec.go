package condition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

// MaxDepth bounds nesting so hostile or corrupt trees cannot exhaust the stack.
const MaxDepth = 32

// Decode parses a stored rule tree. It never fails: anything it cannot
// understand becomes a Malformed node, which evaluates unsatisfied.
func Decode(data []byte) Node {
	return decode(data, 1)
}

// ParseStrict parses an authored rule tree and rejects any malformed node.
func ParseStrict(data []byte) (Node, error) {
	n := Decode(data)
	var problem *Malformed
	Walk(n, func(node Node) bool {
		if m, ok := node.(Malformed); ok && problem == nil {
			problem = &m
		}
		return problem == nil
	})
	if problem != nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "invalid condition: "+problem.Reason)
	}
	return n, nil
}

func decode(raw []byte, depth int) Node {
	malformed := func(format string, args ...any) Node {
		return Malformed{Raw: bytes.Clone(raw), Reason: fmt.Sprintf(format, args...)}
	}
	if depth > MaxDepth {
		return malformed("nesting exceeds %d levels", MaxDepth)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return malformed("condition must be a JSON object")
	}
	if len(obj) != 1 {
		return malformed("condition must have exactly one key, got %d", len(obj))
	}

	for key, payload := range obj {
		switch key {
		case KindAnd, KindOr:
			var items []json.RawMessage
			if err := json.Unmarshal(payload, &items); err != nil {
				return malformed("%q expects an array of conditions", key)
			}
			children := make([]Node, 0, len(items))
			for _, item := range items {
				children = append(children, decode(item, depth+1))
			}
			if key == KindAnd {
				return And{Children: children}
			}
			return Or{Children: children}

		case KindMissions:
			var ids []string
			if err := json.Unmarshal(payload, &ids); err != nil {
				return malformed("%q expects an array of mission ids", key)
			}
			out := make([]id.MissionID, 0, len(ids))
			for _, s := range ids {
				missionID, err := id.ParseMissionID(s)
				if err != nil {
					return malformed("%q contains an invalid mission id", key)
				}
				out = append(out, missionID)
			}
			return Missions{IDs: out}

		case KindDocuments:
			var types []string
			if err := json.Unmarshal(payload, &types); err != nil {
				return malformed("%q expects an array of document types", key)
			}
			for _, t := range types {
				if t == "" {
					return malformed("%q contains an empty document type", key)
				}
			}
			return Documents{Types: types}

		case KindPoints, KindXP, KindStreak:
			n, ok := wholeNumber(payload)
			if !ok {
				return malformed("%q expects an integer threshold", key)
			}
			switch key {
			case KindPoints:
				return Points{Min: n}
			case KindXP:
				return XP{Min: n}
			default:
				return Streak{Min: n}
			}

		case KindCompetenceArea:
			var body struct {
				Area        string          `json:"area"`
				MinMissions json.RawMessage `json:"min_missions"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return malformed("%q expects {\"area\", \"min_missions\"}", key)
			}
			if body.Area == "" {
				return malformed("%q requires an area", key)
			}
			n, ok := wholeNumber(body.MinMissions)
			if !ok {
				return malformed("%q requires an integer min_missions", key)
			}
			return CompetenceArea{Area: body.Area, MinMissions: n}

		default:
			return malformed("unknown condition kind %q", key)
		}
	}
	return malformed("empty condition")
}

func wholeNumber(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Marshal renders n in its wire format. A Malformed node is written back as
// its original bytes so a corrupt stored tree survives a round trip.
func Marshal(n Node) ([]byte, error) {
	v, err := toWire(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func toWire(n Node) (any, error) {
	switch v := n.(type) {
	case And:
		return wireList(KindAnd, v.Children)
	case Or:
		return wireList(KindOr, v.Children)
	case Missions:
		ids := make([]string, 0, len(v.IDs))
		for _, m := range v.IDs {
			ids = append(ids, string(m))
		}
		return map[string]any{KindMissions: ids}, nil
	case Documents:
		types := v.Types
		if types == nil {
			types = []string{}
		}
		return map[string]any{KindDocuments: types}, nil
	case Points:
		return map[string]any{KindPoints: v.Min}, nil
	case XP:
		return map[string]any{KindXP: v.Min}, nil
	case Streak:
		return map[string]any{KindStreak: v.Min}, nil
	case CompetenceArea:
		return map[string]any{KindCompetenceArea: map[string]any{
			"area":         v.Area,
			"min_missions": v.MinMissions,
		}}, nil
	case Malformed:
		if len(v.Raw) == 0 || !json.Valid(v.Raw) {
			return nil, fmt.Errorf("cannot encode malformed condition: %s", v.Reason)
		}
		return v.Raw, nil
	default:
		return nil, fmt.Errorf("cannot encode condition of type %T", n)
	}
}

func wireList(key string, children []Node) (any, error) {
	items := make([]any, 0, len(children))
	for _, c := range children {
		item, err := toWire(c)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return map[string]any{key: items}, nil
}

// Expr embeds a rule tree in JSON-encoded structs.
type Expr struct {
	Node Node
}

func (e Expr) MarshalJSON() ([]byte, error) {
	if e.Node == nil {
		return []byte("null"), nil
	}
	return Marshal(e.Node)
}

// UnmarshalJSON decodes leniently; validation happens at authoring time
// through ParseStrict.
func (e *Expr) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		e.Node = nil
		return nil
	}
	e.Node = Decode(data)
	return nil
}
