package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/models"
	"impulsa/internal/eligibility/service/mocks"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	rules     *mocks.MockRuleStore
	progress  *mocks.MockProgressReader
	areas     *mocks.MockAreaIndexer
	cache     *mocks.MockCache
	service   *Service
	ctx       context.Context
	now       time.Time
	userID    id.UserID
	userState *pmodels.UserProgress
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.rules = mocks.NewMockRuleStore(s.ctrl)
	s.progress = mocks.NewMockProgressReader(s.ctrl)
	s.areas = mocks.NewMockAreaIndexer(s.ctrl)
	s.cache = mocks.NewMockCache(s.ctrl)
	s.service = New(s.rules, s.progress, s.areas,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithCache(s.cache),
	)

	s.now = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.userID = id.NewUserID()
	s.userState = pmodels.New(s.userID, "Ana", "ana@example.com", s.now)
	s.userState.Points = 75
	s.userState.MarkCompleted("historia-emprendedora")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) feriaRules() []*models.Rule {
	return []*models.Rule{
		{ID: "ruta", TargetID: "feria", Name: "Ruta", Weight: 1, Position: 0,
			Condition: condition.Expr{Node: condition.Missions{IDs: []id.MissionID{"historia-emprendedora"}}}},
		{ID: "puntos", TargetID: "feria", Name: "Puntos", Weight: 1, Position: 1,
			Condition: condition.Expr{Node: condition.Points{Min: 150}}},
	}
}

func (s *ServiceSuite) expectSnapshot() {
	s.progress.EXPECT().FindByID(gomock.Any(), s.userID).Return(s.userState.Clone(), nil)
	s.areas.EXPECT().AreaIndex(gomock.Any()).Return(map[id.MissionID]string{"historia-emprendedora": "comunicacion"}, nil)
}

func (s *ServiceSuite) TestEvaluate() {
	s.Run("cache miss evaluates and stores", func() {
		s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("feria")).Return(nil, sentinel.ErrNotFound)
		s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("feria")).Return(&models.Target{ID: "feria"}, nil)
		s.expectSnapshot()
		s.rules.EXPECT().ListRules(gomock.Any(), id.TargetID("feria")).Return(s.feriaRules(), nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, res *models.Result) error {
			s.Equal(models.StatusPartial, res.Status)
			return nil
		})

		res, err := s.service.Evaluate(s.ctx, s.userID, "feria")
		s.Require().NoError(err)
		s.Equal(75.0, res.Percentage)
		s.Equal(models.StatusPartial, res.Status)
		s.Equal(s.now, res.EvaluatedAt)
		s.Require().Len(res.Missing, 1)
		s.Equal(id.RuleID("puntos"), res.Missing[0].RuleID)
		s.Equal(50.0, res.Missing[0].Percentage)
	})

	s.Run("cache hit skips stores", func() {
		cached := &models.Result{TargetID: "feria", UserID: s.userID, Status: models.StatusEligible, Percentage: 100}
		s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("feria")).Return(cached, nil)

		res, err := s.service.Evaluate(s.ctx, s.userID, "feria")
		s.Require().NoError(err)
		s.Same(cached, res)
	})

	s.Run("unknown target", func() {
		s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("nope")).Return(nil, sentinel.ErrNotFound)
		s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("nope")).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Evaluate(s.ctx, s.userID, "nope")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("target without rules is eligible", func() {
		s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("abierto")).Return(nil, sentinel.ErrNotFound)
		s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("abierto")).Return(&models.Target{ID: "abierto"}, nil)
		s.expectSnapshot()
		s.rules.EXPECT().ListRules(gomock.Any(), id.TargetID("abierto")).Return(nil, nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		res, err := s.service.Evaluate(s.ctx, s.userID, "abierto")
		s.Require().NoError(err)
		s.Equal(models.StatusEligible, res.Status)
		s.Equal(100.0, res.Percentage)
	})
}

func (s *ServiceSuite) TestEvaluateUnknownUser() {
	other := id.NewUserID()
	s.cache.EXPECT().Get(gomock.Any(), other, id.TargetID("feria")).Return(nil, sentinel.ErrNotFound)
	s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("feria")).Return(&models.Target{ID: "feria"}, nil)
	s.progress.EXPECT().FindByID(gomock.Any(), other).Return(nil, sentinel.ErrNotFound)
	s.areas.EXPECT().AreaIndex(gomock.Any()).Return(map[id.MissionID]string{}, nil).AnyTimes()

	_, err := s.service.Evaluate(s.ctx, other, "feria")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("user not found", err.Error())
}

func (s *ServiceSuite) TestEvaluateRequiresUser() {
	_, err := s.service.Evaluate(s.ctx, id.UserID{}, "feria")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestEvaluateAll() {
	targets := []*models.Target{{ID: "consultoria"}, {ID: "feria"}}
	s.rules.EXPECT().ListTargets(gomock.Any()).Return(targets, nil)
	s.expectSnapshot()
	s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("consultoria")).Return(
		&models.Result{TargetID: "consultoria", UserID: s.userID, Status: models.StatusNotEligible}, nil)
	s.cache.EXPECT().Get(gomock.Any(), s.userID, id.TargetID("feria")).Return(nil, sentinel.ErrNotFound)
	s.rules.EXPECT().ListRules(gomock.Any(), id.TargetID("feria")).Return(s.feriaRules(), nil)
	s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	results, err := s.service.EvaluateAll(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(id.TargetID("consultoria"), results[0].TargetID)
	s.Equal(id.TargetID("feria"), results[1].TargetID)
	s.Equal(models.StatusPartial, results[1].Status)
}

func (s *ServiceSuite) TestGeneralStanding() {
	s.progress.EXPECT().FindByID(gomock.Any(), s.userID).Return(s.userState, nil)

	res, err := s.service.GeneralStanding(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(models.StatusEligible, res.Status)
	s.Equal(100.0, res.Percentage)
	s.Empty(res.TargetID)
}

func (s *ServiceSuite) TestAddRule() {
	weight := 0.4

	s.Run("appends at next position and invalidates target", func() {
		s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("feria")).Return(&models.Target{ID: "feria"}, nil)
		s.rules.EXPECT().ListRules(gomock.Any(), id.TargetID("feria")).Return(s.feriaRules(), nil)
		s.rules.EXPECT().SaveRule(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Rule) error {
			s.Equal(2, r.Position)
			s.Equal(condition.Streak{Min: 3}, r.Condition.Node)
			return nil
		})
		s.cache.EXPECT().InvalidateTarget(gomock.Any(), id.TargetID("feria")).Return(nil)

		rule, err := s.service.AddRule(s.ctx, "feria", &models.AddRuleRequest{
			ID: "racha", Name: "Racha", Weight: &weight, Condition: json.RawMessage(`{"streak":3}`),
		})
		s.Require().NoError(err)
		s.Equal(id.RuleID("racha"), rule.ID)
	})

	s.Run("rejects malformed condition before touching the store", func() {
		_, err := s.service.AddRule(s.ctx, "feria", &models.AddRuleRequest{
			ID: "roto", Name: "Roto", Weight: &weight, Condition: json.RawMessage(`{"karma":3}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	s.Run("rejects weight out of range", func() {
		heavy := 1.5
		_, err := s.service.AddRule(s.ctx, "feria", &models.AddRuleRequest{
			ID: "pesado", Name: "Pesado", Weight: &heavy, Condition: json.RawMessage(`{"points":1}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("duplicate rule id", func() {
		s.rules.EXPECT().FindTarget(gomock.Any(), id.TargetID("feria")).Return(&models.Target{ID: "feria"}, nil)
		s.rules.EXPECT().ListRules(gomock.Any(), id.TargetID("feria")).Return(nil, nil)
		s.rules.EXPECT().SaveRule(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.AddRule(s.ctx, "feria", &models.AddRuleRequest{
			ID: "ruta", Name: "Ruta", Weight: &weight, Condition: json.RawMessage(`{"points":1}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestCreateTarget() {
	s.rules.EXPECT().SaveTarget(gomock.Any(), gomock.Any()).Return(nil)

	target, err := s.service.CreateTarget(s.ctx, &models.CreateTargetRequest{
		ID: "hackathon", Kind: "event", Title: "Hackathon",
	})
	s.Require().NoError(err)
	s.Equal(models.TargetEvent, target.Kind)
	s.Equal(s.now, target.CreatedAt)
}

func (s *ServiceSuite) TestInvalidate() {
	s.cache.EXPECT().InvalidateUser(gomock.Any(), s.userID).Return(errCacheDown)
	s.NotPanics(func() { s.service.Invalidate(s.ctx, s.userID) })
}

var errCacheDown = dErrors.New(dErrors.CodeInternal, "redis down")
