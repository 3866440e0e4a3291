package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"impulsa/internal/eligibility"
	"impulsa/internal/eligibility/condition"
	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/mission"
	mmodels "impulsa/internal/mission/models"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
)

type checkOptions struct {
	points    int
	streak    int
	completed []string
	documents map[string]string
}

type missionLine struct {
	ID     id.MissionID   `json:"id"`
	Title  string         `json:"title"`
	Status mmodels.Status `json:"status"`
}

type targetLine struct {
	ID         id.TargetID                  `json:"id"`
	Status     emodels.Status               `json:"status"`
	Percentage float64                      `json:"percentage"`
	Missing    []emodels.MissingRequirement `json:"missing_requirements"`
}

type checkReport struct {
	Points    int           `json:"points"`
	Level     int           `json:"level"`
	LevelName string        `json:"level_name"`
	Missions  []missionLine `json:"missions"`
	Targets   []targetLine  `json:"targets"`
}

func newMissionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Preview the mission map",
	}

	check := &checkOptions{}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Show mission statuses and eligibility for a hypothetical participant",
		Example: "  progressctl missions check --completed historia-emprendedora,fundamentos-quiz " +
			"--points 80 --document ruc=approved",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := loadRuntimeCatalog(opts.catalogPath, time.Now())
			if err != nil {
				return err
			}
			report, err := runCheck(cmd.Context(), rc, check, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "points %d, level %d (%s)\n\n", report.Points, report.Level, report.LevelName)
			for _, m := range report.Missions {
				fmt.Fprintf(out, "%-28s %-10s %s\n", m.ID, m.Status, m.Title)
			}
			fmt.Fprintln(out)
			for _, t := range report.Targets {
				fmt.Fprintf(out, "%-28s %-13s %6.2f%%\n", t.ID, t.Status, t.Percentage)
				for _, miss := range t.Missing {
					fmt.Fprintf(out, "    missing %s (%.2f%%)\n", miss.Name, miss.Percentage)
				}
			}
			return nil
		},
	}
	checkCmd.Flags().IntVar(&check.points, "points", 0, "accumulated points")
	checkCmd.Flags().IntVar(&check.streak, "streak", 0, "current daily streak")
	checkCmd.Flags().StringSliceVar(&check.completed, "completed", nil, "completed mission ids")
	checkCmd.Flags().StringToStringVar(&check.documents, "document", nil, "document statuses, e.g. ruc=approved")

	cmd.AddCommand(checkCmd)
	return cmd
}

func runCheck(ctx context.Context, rc *runtimeCatalog, opts *checkOptions, now time.Time) (*checkReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	known := make(map[id.MissionID]bool, len(rc.missions))
	for _, m := range rc.missions {
		known[m.ID] = true
	}

	p := pmodels.New(id.NewUserID(), "preview", "", now)
	p.Points = opts.points
	p.CurrentStreak = opts.streak
	p.BestStreak = opts.streak
	for _, raw := range opts.completed {
		missionID := id.MissionID(strings.TrimSpace(raw))
		if !known[missionID] {
			return nil, fmt.Errorf("unknown mission %q", raw)
		}
		p.MarkCompleted(missionID)
	}
	for docType, status := range opts.documents {
		s := pmodels.DocumentStatus(strings.ToLower(status))
		if !s.IsValid() {
			return nil, fmt.Errorf("document %s: invalid status %q", docType, status)
		}
		p.Documents[strings.ToLower(docType)] = s
	}
	placement := rc.levels.LevelFor(p.Points)
	p.Level = placement.Level.Number

	snap := pmodels.NewSnapshot(p, rc.areaIndex())
	report := &checkReport{
		Points:    p.Points,
		Level:     placement.Level.Number,
		LevelName: placement.Level.Name,
		Missions:  make([]missionLine, 0, len(rc.missions)),
		Targets:   make([]targetLine, 0, len(rc.targets)),
	}

	ordered := slices.Clone(rc.missions)
	slices.SortStableFunc(ordered, func(a, b *mmodels.Mission) int { return a.Position - b.Position })
	for _, m := range ordered {
		report.Missions = append(report.Missions, missionLine{
			ID:     m.ID,
			Title:  m.Title,
			Status: mission.StatusFor(snap, m, now),
		})
	}

	calc := eligibility.NewCalculator(condition.NewEvaluator())
	for _, t := range rc.targets {
		targetID := id.TargetID(t.ID)
		v := calc.Calculate(ctx, snap, rc.rules[targetID])
		report.Targets = append(report.Targets, targetLine{
			ID:         targetID,
			Status:     v.Status,
			Percentage: v.Percentage,
			Missing:    v.Missing,
		})
	}
	return report, nil
}
