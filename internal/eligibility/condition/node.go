// Package condition implements the eligibility rule language: a closed set of
// node kinds, their tagged-JSON wire format and a fail-closed evaluator.
//
// Wire format (exactly one key per object):
//
//	{"and": [node, ...]}
//	{"or": [node, ...]}
//	{"missions": ["mission-id", ...]}
//	{"documents": ["ruc", ...]}
//	{"points": 150}
//	{"xp": 150}
//	{"streak": 3}
//	{"competence_area": {"area": "legal", "min_missions": 2}}
package condition

import (
	"encoding/json"

	id "impulsa/pkg/domain"
)

// Node is one element of a rule tree. The interface is sealed: only the types
// in this file implement it, so the evaluator's type switch is exhaustive.
type Node interface {
	kind() string
}

type And struct {
	Children []Node
}

type Or struct {
	Children []Node
}

// Missions is satisfied when every listed mission is completed.
type Missions struct {
	IDs []id.MissionID
}

// Documents is satisfied when every listed document type is approved.
type Documents struct {
	Types []string
}

type Points struct {
	Min int
}

// XP reads the same cumulative points total as Points. The two tags are kept
// apart so authored rules round-trip unchanged.
type XP struct {
	Min int
}

type Streak struct {
	Min int
}

type CompetenceArea struct {
	Area        string
	MinMissions int
}

// Malformed stands in for a stored node that could not be decoded. It always
// evaluates unsatisfied.
type Malformed struct {
	Raw    json.RawMessage
	Reason string
}

const (
	KindAnd            = "and"
	KindOr             = "or"
	KindMissions       = "missions"
	KindDocuments      = "documents"
	KindPoints         = "points"
	KindXP             = "xp"
	KindStreak         = "streak"
	KindCompetenceArea = "competence_area"
	KindMalformed      = "malformed"
)

func (And) kind() string            { return KindAnd }
func (Or) kind() string             { return KindOr }
func (Missions) kind() string       { return KindMissions }
func (Documents) kind() string      { return KindDocuments }
func (Points) kind() string         { return KindPoints }
func (XP) kind() string             { return KindXP }
func (Streak) kind() string         { return KindStreak }
func (CompetenceArea) kind() string { return KindCompetenceArea }
func (Malformed) kind() string      { return KindMalformed }

// Kind returns the wire tag of n, or "malformed".
func Kind(n Node) string {
	if n == nil {
		return KindMalformed
	}
	return n.kind()
}

// Walk visits n and its descendants depth-first. Returning false from fn
// stops descent into that node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case And:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case Or:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	}
}

// MissionRefs lists every mission id referenced anywhere in n.
func MissionRefs(n Node) []id.MissionID {
	var refs []id.MissionID
	Walk(n, func(node Node) bool {
		if m, ok := node.(Missions); ok {
			refs = append(refs, m.IDs...)
		}
		return true
	})
	return refs
}
