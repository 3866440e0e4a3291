package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"impulsa/internal/badge"
	"impulsa/internal/eligibility/condition"
	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/mission"
	mmodels "impulsa/internal/mission/models"
	"impulsa/internal/platform/config"
	"impulsa/internal/progression"
	id "impulsa/pkg/domain"
)

// runtimeCatalog is a catalogue turned into the engine's runtime types. Building
// it runs every check the server runs at startup.
type runtimeCatalog struct {
	levels   *progression.LevelTable
	badges   *badge.Catalogue
	missions []*mmodels.Mission
	targets  []config.TargetSpec
	rules    map[id.TargetID][]*emodels.Rule
}

func (c *runtimeCatalog) ruleCount() int {
	n := 0
	for _, rules := range c.rules {
		n += len(rules)
	}
	return n
}

func (c *runtimeCatalog) areaIndex() map[id.MissionID]string {
	areas := make(map[id.MissionID]string, len(c.missions))
	for _, m := range c.missions {
		areas[m.ID] = m.CompetenceArea
	}
	return areas
}

func loadRuntimeCatalog(path string, now time.Time) (*runtimeCatalog, error) {
	cat, err := config.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	levels, err := progression.FromCatalog(cat.Levels)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	badges, err := badge.FromCatalog(cat.Badges)
	if err != nil {
		return nil, fmt.Errorf("badges: %w", err)
	}
	missions, err := mission.FromCatalog(cat.Missions, now)
	if err != nil {
		return nil, fmt.Errorf("missions: %w", err)
	}

	rules := make(map[id.TargetID][]*emodels.Rule, len(cat.Targets))
	seen := make(map[id.TargetID]bool, len(cat.Targets))
	for _, t := range cat.Targets {
		targetID, err := id.ParseTargetID(t.ID)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.ID, err)
		}
		if seen[targetID] {
			return nil, fmt.Errorf("target %q is defined twice", t.ID)
		}
		seen[targetID] = true
		if !emodels.TargetKind(t.Kind).IsValid() {
			return nil, fmt.Errorf("target %q: invalid kind %q", t.ID, t.Kind)
		}
		for pos, r := range t.Rules {
			rule, err := buildRule(targetID, r, pos)
			if err != nil {
				return nil, err
			}
			rules[targetID] = append(rules[targetID], rule)
		}
	}

	return &runtimeCatalog{
		levels:   levels,
		badges:   badges,
		missions: missions,
		targets:  cat.Targets,
		rules:    rules,
	}, nil
}

func buildRule(targetID id.TargetID, spec config.RuleSpec, pos int) (*emodels.Rule, error) {
	ruleID, err := id.ParseRuleID(spec.ID)
	if err != nil {
		return nil, fmt.Errorf("rule %s/%s: %w", targetID, spec.ID, err)
	}
	if spec.Weight < 0 || spec.Weight > 1 {
		return nil, fmt.Errorf("rule %s/%s: weight %v outside [0, 1]", targetID, spec.ID, spec.Weight)
	}
	raw, err := spec.ConditionJSON()
	if err != nil {
		return nil, err
	}
	node, err := condition.ParseStrict(raw)
	if err != nil {
		return nil, fmt.Errorf("rule %s/%s: %w", targetID, spec.ID, err)
	}
	return &emodels.Rule{
		ID:          ruleID,
		TargetID:    targetID,
		Name:        spec.Name,
		Description: spec.Description,
		Weight:      spec.Weight,
		Condition:   condition.Expr{Node: node},
		Position:    pos,
	}, nil
}

type catalogSummary struct {
	Valid    bool `json:"valid"`
	Levels   int  `json:"levels"`
	Badges   int  `json:"badges"`
	Missions int  `json:"missions"`
	Targets  int  `json:"targets"`
	Rules    int  `json:"rules"`
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the gamification catalogue",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check levels, badges, the mission graph and every rule condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := loadRuntimeCatalog(opts.catalogPath, time.Now())
			if err != nil {
				return err
			}
			sum := catalogSummary{
				Valid:    true,
				Levels:   len(rc.levels.Levels()),
				Badges:   len(rc.badges.Badges()),
				Missions: len(rc.missions),
				Targets:  len(rc.targets),
				Rules:    rc.ruleCount(),
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, sum)
			}
			fmt.Fprintf(out, "catalog OK: %d levels, %d badges, %d missions, %d targets, %d rules\n",
				sum.Levels, sum.Badges, sum.Missions, sum.Targets, sum.Rules)
			return nil
		},
	})
	return cmd
}
