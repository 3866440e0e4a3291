//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/store"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/testutil"
	"impulsa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestTargets() {
	ctx := context.Background()
	s.Require().NoError(s.store.SaveTarget(ctx, testutil.NewTarget("feria")))
	s.Require().NoError(s.store.SaveTarget(ctx, testutil.NewTarget("bono")))

	s.Run("duplicate conflicts", func() {
		s.ErrorIs(s.store.SaveTarget(ctx, testutil.NewTarget("feria")), sentinel.ErrConflict)
	})
	s.Run("find", func() {
		got, err := s.store.FindTarget(ctx, "feria")
		s.Require().NoError(err)
		s.Equal("Target feria", got.Title)
	})
	s.Run("find unknown", func() {
		_, err := s.store.FindTarget(ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
	s.Run("list sorted", func() {
		targets, err := s.store.ListTargets(ctx)
		s.Require().NoError(err)
		s.Require().Len(targets, 2)
		s.EqualValues("bono", targets[0].ID)
		s.EqualValues("feria", targets[1].ID)
	})
}

func (s *PostgresStoreSuite) TestRulesRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.SaveTarget(ctx, testutil.NewTarget("feria")))

	first := testutil.NewRule("feria", "puntos", 0.4, `{"points": 150}`)
	second := testutil.NewRule("feria", "legal", 0.6,
		`{"and": [{"missions": ["video"]}, {"competence_area": {"area": "legal", "min_missions": 2}}]}`)
	second.Position = 1
	s.Require().NoError(s.store.SaveRule(ctx, first))
	s.Require().NoError(s.store.SaveRule(ctx, second))

	rules, err := s.store.ListRules(ctx, "feria")
	s.Require().NoError(err)
	s.Require().Len(rules, 2)
	s.EqualValues("puntos", rules[0].ID)
	s.Equal(condition.Points{Min: 150}, rules[0].Condition.Node)
	s.InDelta(0.6, rules[1].Weight, 1e-9)

	and, ok := rules[1].Condition.Node.(condition.And)
	s.Require().True(ok)
	s.Require().Len(and.Children, 2)
	s.Equal(condition.CompetenceArea{Area: "legal", MinMissions: 2}, and.Children[1])
}

func (s *PostgresStoreSuite) TestRuleErrors() {
	ctx := context.Background()
	s.Require().NoError(s.store.SaveTarget(ctx, testutil.NewTarget("feria")))
	s.Require().NoError(s.store.SaveRule(ctx, testutil.NewRule("feria", "puntos", 1, `{"points": 10}`)))

	s.Run("duplicate rule", func() {
		err := s.store.SaveRule(ctx, testutil.NewRule("feria", "puntos", 1, `{"points": 20}`))
		s.ErrorIs(err, sentinel.ErrConflict)
	})
	s.Run("unknown target", func() {
		err := s.store.SaveRule(ctx, testutil.NewRule("missing", "otro", 1, `{"points": 20}`))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// A row edited by hand into an unknown shape must load as a fail-closed node
// instead of breaking the whole target.
func (s *PostgresStoreSuite) TestCorruptedConditionLoadsAsMalformed() {
	ctx := context.Background()
	s.Require().NoError(s.store.SaveTarget(ctx, testutil.NewTarget("feria")))
	_, err := s.postgres.DB.ExecContext(ctx, `
		INSERT INTO eligibility_rules (id, target_id, name, weight, condition, position, created_at)
		VALUES ('roto', 'feria', 'roto', 1, '{"bogus": 4}'::jsonb, 0, now())
	`)
	s.Require().NoError(err)

	rules, err := s.store.ListRules(ctx, "feria")
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal(condition.KindMalformed, condition.Kind(rules[0].Condition.Node))
}
