package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"impulsa/internal/progress/models"
	"impulsa/internal/progress/service/mocks"
	"impulsa/internal/progress/store"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	invalidator *mocks.MockEligibilityInvalidator
	store       *store.InMemoryStore
	service     *Service
	ctx         context.Context
	now         time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.invalidator = mocks.NewMockEligibilityInvalidator(s.ctrl)
	s.store = store.New()
	s.now = time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithEligibility(s.invalidator),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) register(email string) *models.UserProgress {
	p, err := s.service.Register(s.ctx, &models.RegisterUserRequest{Name: "Ana", Email: email})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) TestRegister() {
	s.Run("mints an id when none is given", func() {
		p := s.register("ana@example.com")
		s.False(p.ID.IsNil())
		s.Equal(1, p.Level)
		s.Equal(s.now, p.CreatedAt)
		s.NotNil(p.Documents)
	})

	s.Run("keeps the gateway id", func() {
		userID := id.NewUserID()
		p, err := s.service.Register(s.ctx, &models.RegisterUserRequest{UserID: userID.String(), Name: "Luis", Email: "luis@example.com"})
		s.Require().NoError(err)
		s.Equal(userID, p.ID)
	})

	s.Run("duplicate email", func() {
		_, err := s.service.Register(s.ctx, &models.RegisterUserRequest{Name: "Ana", Email: "ANA@example.com"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestGetPlacesOnLevelTable() {
	p := s.register("ana@example.com")
	_, err := s.store.Execute(s.ctx, p.ID, func(p *models.UserProgress) error {
		p.Points = 320
		return nil
	})
	s.Require().NoError(err)

	view, err := s.service.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(3, view.Placement.Level.Number)
	s.Equal("emprendedor_senior", view.Placement.Level.Name)
	s.Equal(70, view.Placement.PointsInLevel)
	s.Require().NotNil(view.Placement.NextThreshold)
	s.Equal(500, *view.Placement.NextThreshold)

	_, err = s.service.Get(s.ctx, id.NewUserID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSetDocumentStatus() {
	p := s.register("ana@example.com")

	s.Run("approval invalidates eligibility", func() {
		s.invalidator.EXPECT().Invalidate(gomock.Any(), p.ID)
		updated, err := s.service.SetDocumentStatus(s.ctx, p.ID, " RUC ", models.DocumentApproved)
		s.Require().NoError(err)
		s.Equal(models.DocumentApproved, updated.Documents["ruc"])
	})

	s.Run("unknown status", func() {
		_, err := s.service.SetDocumentStatus(s.ctx, p.ID, "ruc", "lost")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown user", func() {
		_, err := s.service.SetDocumentStatus(s.ctx, id.NewUserID(), "ruc", models.DocumentSubmitted)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestLeaderboard() {
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		p := s.register(email)
		_, err := s.store.Execute(s.ctx, p.ID, func(p *models.UserProgress) error {
			p.Points = (i + 1) * 100
			return nil
		})
		s.Require().NoError(err)
	}

	entries, err := s.service.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(300, entries[0].Points)
	s.Equal(1, entries[0].Rank)
	s.Equal(200, entries[1].Points)
}

func (s *ServiceSuite) TestLeaderboardLimits() {
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := New(mockStore, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	mockStore.EXPECT().ListTop(gomock.Any(), defaultLeaderboardSize).Return(nil, nil)
	_, err := svc.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)

	mockStore.EXPECT().ListTop(gomock.Any(), maxLeaderboardSize).Return(nil, errors.New("timeout"))
	_, err = svc.Leaderboard(s.ctx, 5000)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
