package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the authored gamification content: level table, badges,
// missions and eligibility targets with their rules. Specs are raw; domain
// packages validate them when they are turned into runtime types.
type Catalog struct {
	Levels   []LevelSpec   `yaml:"levels"`
	Badges   []BadgeSpec   `yaml:"badges"`
	Missions []MissionSpec `yaml:"missions"`
	Targets  []TargetSpec  `yaml:"targets"`
}

type LevelSpec struct {
	Level     int    `yaml:"level"`
	Name      string `yaml:"name"`
	Threshold int    `yaml:"threshold"`
}

type BadgeSpec struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Condition   string `yaml:"condition"`
	Area        string `yaml:"area"`
	Coins       int    `yaml:"coins"`
}

type MissionSpec struct {
	ID               string         `yaml:"id"`
	Title            string         `yaml:"title"`
	Description      string         `yaml:"description"`
	Type             string         `yaml:"type"`
	Position         int            `yaml:"position"`
	CompetenceArea   string         `yaml:"competence_area"`
	Prerequisites    []string       `yaml:"prerequisites"`
	EvidenceRequired bool           `yaml:"evidence_required"`
	AutoApprove      bool           `yaml:"auto_approve"`
	Points           int            `yaml:"points"`
	Coins            int            `yaml:"coins"`
	Questions        []QuestionSpec `yaml:"questions"`
}

type QuestionSpec struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
	Answer  int      `yaml:"answer"`
}

type TargetSpec struct {
	ID          string     `yaml:"id"`
	Kind        string     `yaml:"kind"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Rules       []RuleSpec `yaml:"rules"`
}

type RuleSpec struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Weight      float64        `yaml:"weight"`
	Condition   map[string]any `yaml:"condition"`
}

// ConditionJSON renders the rule tree in its JSON wire format.
func (r RuleSpec) ConditionJSON() ([]byte, error) {
	if len(r.Condition) == 0 {
		return nil, fmt.Errorf("rule %q has no condition", r.ID)
	}
	data, err := json.Marshal(r.Condition)
	if err != nil {
		return nil, fmt.Errorf("rule %q condition: %w", r.ID, err)
	}
	return data, nil
}

// LoadCatalog reads the catalogue at path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML strictly: unknown keys are errors so typos in
// authored content fail at startup instead of silently dropping a rule.
func ParseCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse catalog: empty document")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}
