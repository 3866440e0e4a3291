package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"impulsa/internal/mission/handler/mocks"
	"impulsa/internal/mission/models"
	"impulsa/internal/platform/middleware"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/httputil"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	userID      id.UserID
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.userID = id.NewUserID()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(s.mockService, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSubject(logger))
		h.Register(r)
	})
	h.RegisterAdmin(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(middleware.SubjectHeader, s.userID.String())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func (s *HandlerSuite) TestListMissionsHidesAnswers() {
	s.mockService.EXPECT().ListWithStatus(gomock.Any(), s.userID).Return([]models.MissionWithStatus{
		{
			Mission: &models.Mission{
				ID: "quiz", Title: "Fundamentos", Type: models.TypeMiniQuiz,
				Prerequisites: []id.MissionID{"video"},
				Questions:     []models.Question{{Prompt: "q1", Options: []string{"a", "b"}, CorrectAnswer: 1}},
			},
			Status: models.StatusLocked,
		},
	}, nil)

	rec := s.do(http.MethodGet, "/missions", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "correct_answer")

	var body MissionListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Require().Len(body.Missions, 1)
	s.Equal(models.StatusLocked, body.Missions[0].Status)
	s.Equal([]string{"a", "b"}, body.Missions[0].Questions[0].Options)
}

func (s *HandlerSuite) TestCompleteMission() {
	s.Run("converts answer keys to question indexes", func() {
		score := 66.67
		retry := time.Date(2025, 5, 27, 15, 0, 0, 0, time.UTC)
		s.mockService.EXPECT().
			CompleteMission(gomock.Any(), s.userID, id.MissionID("quiz"), models.Submission{
				QuizAnswers: map[int]int{0: 1, 2: 0},
			}).
			Return(&models.CompletionResult{Status: models.StatusLocked, Score: &score, RetryAfter: &retry, Level: 1}, nil)

		rec := s.do(http.MethodPost, "/missions/quiz/complete", `{"quiz_answers":{"0":1,"2":0}}`)
		s.Require().Equal(http.StatusOK, rec.Code)

		var body CompletionResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.False(body.Success)
		s.Equal(66.67, *body.Score)
		s.Equal(retry, *body.RetryAfter)
		s.Equal([]id.BadgeID{}, body.BadgesAwarded)
	})

	s.Run("trims evidence", func() {
		s.mockService.EXPECT().
			CompleteMission(gomock.Any(), s.userID, id.MissionID("video"), models.Submission{
				QuizAnswers: map[int]int{}, Evidence: "https://clip",
			}).
			Return(&models.CompletionResult{Success: true, Status: models.StatusCompleted, PointsAwarded: 50}, nil)

		rec := s.do(http.MethodPost, "/missions/video/complete", `{"evidence":"  https://clip "}`)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("rejects non-index answer keys", func() {
		rec := s.do(http.MethodPost, "/missions/quiz/complete", `{"quiz_answers":{"first":1}}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", s.errorCode(rec))
	})

	s.Run("cooldown maps to conflict", func() {
		s.mockService.EXPECT().CompleteMission(gomock.Any(), s.userID, id.MissionID("quiz"), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidState, "mission in cooldown until 2025-05-27T15:00:00Z"))

		rec := s.do(http.MethodPost, "/missions/quiz/complete", `{}`)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown mission", func() {
		s.mockService.EXPECT().CompleteMission(gomock.Any(), s.userID, id.MissionID("ghost"), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "mission not found"))

		rec := s.do(http.MethodPost, "/missions/ghost/complete", `{}`)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("requires subject header", func() {
		req := httptest.NewRequest(http.MethodPost, "/missions/quiz/complete", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *HandlerSuite) TestCooldownAndAttempts() {
	retry := time.Date(2025, 5, 27, 15, 0, 0, 0, time.UTC)
	s.mockService.EXPECT().Cooldown(gomock.Any(), s.userID, id.MissionID("quiz")).Return(&models.CooldownStatus{
		RetryAfter: &retry, RemainingDays: 3, Message: "You can retry this mission in 3 days",
	}, nil)

	rec := s.do(http.MethodGet, "/missions/quiz/cooldown", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var cd CooldownResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&cd))
	s.False(cd.CanAttempt)
	s.Equal(3, cd.RemainingDays)

	score := 40.0
	s.mockService.EXPECT().Attempts(gomock.Any(), s.userID, id.MissionID("quiz")).Return([]*models.Attempt{
		{ID: id.NewAttemptID(), Outcome: models.OutcomeFailed, Score: &score, AttemptedAt: retry.Add(-7 * 24 * time.Hour)},
	}, nil)

	rec = s.do(http.MethodGet, "/missions/quiz/attempts", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var attempts AttemptListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&attempts))
	s.Require().Len(attempts.Attempts, 1)
	s.Equal(models.OutcomeFailed, attempts.Attempts[0].Outcome)
}

func (s *HandlerSuite) TestCreateMission() {
	s.Run("unknown type", func() {
		rec := s.do(http.MethodPost, "/admin/missions", `{"id":"x","title":"X","type":"podcast"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", s.errorCode(rec))
	})

	s.Run("answer out of range", func() {
		rec := s.do(http.MethodPost, "/admin/missions",
			`{"id":"q","title":"Q","type":"mini_quiz","questions":[{"prompt":"p","options":["a","b"],"correct_answer":2}]}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("prerequisite cycle is a configuration error", func() {
		s.mockService.EXPECT().CreateMission(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConfiguration, "prerequisite cycle: a -> b -> a"))

		rec := s.do(http.MethodPost, "/admin/missions", `{"id":"a","title":"A","type":"microvideo","prerequisites":["b"]}`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("configuration_error", s.errorCode(rec))
	})

	s.Run("created", func() {
		s.mockService.EXPECT().CreateMission(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req *models.CreateMissionRequest) (*models.Mission, error) {
				s.Equal("microvideo", req.Type)
				s.Equal("comunicacion", req.CompetenceArea)
				return &models.Mission{ID: "pitch", Title: req.Title, Type: models.TypeMicrovideo, PointsReward: 40}, nil
			})

		rec := s.do(http.MethodPost, "/admin/missions",
			`{"id":"pitch","title":" Pitch ","type":"MicroVideo","competence_area":"Comunicacion","points":40}`)
		s.Require().Equal(http.StatusCreated, rec.Code)
		var body MissionResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal(id.MissionID("pitch"), body.ID)
		s.Equal([]id.MissionID{}, body.Prerequisites)
	})
}

func (s *HandlerSuite) TestReview() {
	s.Run("approved is required", func() {
		rec := s.do(http.MethodPost, "/admin/reviews", `{"user_id":"`+s.userID.String()+`","mission_id":"plan"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejection", func() {
		s.mockService.EXPECT().ReviewSubmission(gomock.Any(), s.userID, id.MissionID("plan"), false).
			Return(&models.CompletionResult{Status: models.StatusLocked, Message: "Submission rejected by reviewer"}, nil)

		rec := s.do(http.MethodPost, "/admin/reviews",
			`{"user_id":"`+s.userID.String()+`","mission_id":"plan","approved":false}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body CompletionResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal("Submission rejected by reviewer", body.Message)
	})

	s.Run("nothing pending", func() {
		s.mockService.EXPECT().ReviewSubmission(gomock.Any(), s.userID, id.MissionID("plan"), true).
			Return(nil, dErrors.New(dErrors.CodeInvalidState, "no submission pending review"))

		rec := s.do(http.MethodPost, "/admin/reviews",
			`{"user_id":"`+s.userID.String()+`","mission_id":"plan","approved":true}`)
		s.Equal(http.StatusConflict, rec.Code)
	})
}
