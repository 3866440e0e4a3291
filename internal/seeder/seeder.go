// Package seeder loads the authored catalogue into the stores at startup and,
// outside production, registers a few demo participants.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/mission"
	mmodels "impulsa/internal/mission/models"
	"impulsa/internal/platform/config"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
)

// MissionStore receives validated catalogue missions.
type MissionStore interface {
	Save(ctx context.Context, m *mmodels.Mission) error
}

// TargetAuthor creates targets and rules through the same path the admin API
// uses, so catalogue rules are parsed strictly.
type TargetAuthor interface {
	CreateTarget(ctx context.Context, req *emodels.CreateTargetRequest) (*emodels.Target, error)
	AddRule(ctx context.Context, targetID id.TargetID, req *emodels.AddRuleRequest) (*emodels.Rule, error)
}

// UserRegistrar registers demo participants.
type UserRegistrar interface {
	Register(ctx context.Context, req *pmodels.RegisterUserRequest) (*pmodels.UserProgress, error)
}

// Summary counts what a run actually created. Entries that already existed
// are skipped, so a second run against Postgres reports zeros.
type Summary struct {
	Missions int
	Targets  int
	Rules    int
	Users    int
}

type Seeder struct {
	missions MissionStore
	targets  TargetAuthor
	logger   *slog.Logger
}

func New(missions MissionStore, targets TargetAuthor, logger *slog.Logger) *Seeder {
	if missions == nil || targets == nil {
		panic("seeder: missions and targets are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{missions: missions, targets: targets, logger: logger}
}

// SeedCatalog stores every mission, target and rule of the catalogue.
func (s *Seeder) SeedCatalog(ctx context.Context, cat *config.Catalog, now time.Time) (Summary, error) {
	var sum Summary

	missions, err := mission.FromCatalog(cat.Missions, now)
	if err != nil {
		return sum, fmt.Errorf("catalog missions: %w", err)
	}
	for _, m := range missions {
		if err := s.missions.Save(ctx, m); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return sum, fmt.Errorf("save mission %s: %w", m.ID, err)
		}
		sum.Missions++
	}

	for _, t := range cat.Targets {
		created, err := s.seedTarget(ctx, t)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Targets++
		}
		for _, r := range t.Rules {
			added, err := s.seedRule(ctx, t.ID, r)
			if err != nil {
				return sum, err
			}
			if added {
				sum.Rules++
			}
		}
	}

	s.logger.InfoContext(ctx, "catalog seeded",
		"missions", sum.Missions,
		"targets", sum.Targets,
		"rules", sum.Rules,
	)
	return sum, nil
}

func (s *Seeder) seedTarget(ctx context.Context, spec config.TargetSpec) (bool, error) {
	req := &emodels.CreateTargetRequest{
		ID:          spec.ID,
		Kind:        spec.Kind,
		Title:       spec.Title,
		Description: spec.Description,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("target %s: %w", spec.ID, err)
	}
	if _, err := s.targets.CreateTarget(ctx, req); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return false, nil
		}
		return false, fmt.Errorf("create target %s: %w", spec.ID, err)
	}
	return true, nil
}

func (s *Seeder) seedRule(ctx context.Context, targetID string, spec config.RuleSpec) (bool, error) {
	cond, err := spec.ConditionJSON()
	if err != nil {
		return false, err
	}
	weight := spec.Weight
	req := &emodels.AddRuleRequest{
		ID:          spec.ID,
		Name:        spec.Name,
		Description: spec.Description,
		Weight:      &weight,
		Condition:   cond,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("rule %s/%s: %w", targetID, spec.ID, err)
	}
	if _, err := s.targets.AddRule(ctx, id.TargetID(targetID), req); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return false, nil
		}
		return false, fmt.Errorf("add rule %s/%s: %w", targetID, spec.ID, err)
	}
	return true, nil
}

// demoUsers have fixed ids so restarts against Postgres do not duplicate them.
var demoUsers = []pmodels.RegisterUserRequest{
	{UserID: "8a1f2c3d-0000-4000-8000-000000000001", Name: "Ana Torres", Email: "ana@impulsa.dev"},
	{UserID: "8a1f2c3d-0000-4000-8000-000000000002", Name: "Luis Mera", Email: "luis@impulsa.dev"},
	{UserID: "8a1f2c3d-0000-4000-8000-000000000003", Name: "Carla Vera", Email: "carla@impulsa.dev"},
}

// SeedDemoUsers registers the demo participants and returns the ids of the
// ones it created.
func (s *Seeder) SeedDemoUsers(ctx context.Context, users UserRegistrar) ([]id.UserID, error) {
	var created []id.UserID
	for _, u := range demoUsers {
		req := u
		p, err := users.Register(ctx, &req)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				continue
			}
			return created, fmt.Errorf("register demo user %s: %w", u.Email, err)
		}
		created = append(created, p.ID)
	}
	s.logger.InfoContext(ctx, "demo users seeded", "users", len(created))
	return created, nil
}
