package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"impulsa/internal/badge"
	"impulsa/internal/events"
	"impulsa/internal/mission"
	"impulsa/internal/mission/metrics"
	"impulsa/internal/mission/models"
	"impulsa/internal/platform/tracer"
	pmodels "impulsa/internal/progress/models"
	"impulsa/internal/progression"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// MissionStore persists the mission catalogue and attempt history.
// Error Contract:
// - Find returns sentinel.ErrNotFound for an unknown mission
// - Save returns sentinel.ErrConflict on a duplicate id
type MissionStore interface {
	Find(ctx context.Context, missionID id.MissionID) (*models.Mission, error)
	List(ctx context.Context) ([]*models.Mission, error)
	Save(ctx context.Context, mission *models.Mission) error
	RecordAttempt(ctx context.Context, a *models.Attempt) error
	ListAttempts(ctx context.Context, userID id.UserID, missionID id.MissionID) ([]*models.Attempt, error)
}

// ProgressStore reads progress and applies atomic per-user updates. Execute
// persists the record only when fn returns nil.
type ProgressStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*pmodels.UserProgress, error)
	Execute(ctx context.Context, userID id.UserID, fn func(p *pmodels.UserProgress) error) (*pmodels.UserProgress, error)
}

// BadgeSweeper grants satisfied badges inside the atomic update.
type BadgeSweeper interface {
	Sweep(p *pmodels.UserProgress, snap pmodels.Snapshot, now time.Time) []badge.Award
}

// EligibilityInvalidator drops cached eligibility after a progress change.
type EligibilityInvalidator interface {
	Invalidate(ctx context.Context, userID id.UserID)
}

// Emitter publishes committed progression events.
type Emitter interface {
	Emit(ctx context.Context, evs ...events.Event)
}

// Service runs mission completion and review on top of the pure state
// machine in package mission.
type Service struct {
	missions    MissionStore
	progress    ProgressStore
	badges      BadgeSweeper
	levels      *progression.LevelTable
	eligibility EligibilityInvalidator
	emitter     Emitter
	location    *time.Location
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithLevelTable(t *progression.LevelTable) Option {
	return func(s *Service) {
		s.levels = t
	}
}

func WithEligibility(inv EligibilityInvalidator) Option {
	return func(s *Service) {
		s.eligibility = inv
	}
}

func WithEmitter(e Emitter) Option {
	return func(s *Service) {
		s.emitter = e
	}
}

// WithLocation sets the timezone whose calendar days drive streaks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

func New(missions MissionStore, progress ProgressStore, badges BadgeSweeper, opts ...Option) *Service {
	if missions == nil {
		panic("mission.New: mission store is required")
	}
	if progress == nil {
		panic("mission.New: progress store is required")
	}
	if badges == nil {
		panic("mission.New: badge sweeper is required")
	}
	s := &Service{
		missions: missions,
		progress: progress,
		badges:   badges,
		levels:   progression.DefaultLevelTable(),
		location: time.UTC,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commit carries what an atomic update decided out to the post-commit steps.
type commit struct {
	result  *models.CompletionResult
	outcome models.Outcome
	score   *float64
	events  []events.Event
}

// CompleteMission attempts a mission for the user. Quiz failures and
// submissions awaiting review are results, not errors.
func (s *Service) CompleteMission(ctx context.Context, userID id.UserID, missionID id.MissionID, sub models.Submission) (result *models.CompletionResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMissionComplete,
		tracer.String(tracer.AttrUserID, userID.String()),
		tracer.String(tracer.AttrMissionID, missionID.String()),
	)
	defer func() { span.End(err) }()

	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	m, err := s.findMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	areas, err := s.AreaIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	start := time.Now()
	var c commit
	_, err = s.progress.Execute(ctx, userID, func(p *pmodels.UserProgress) error {
		c = commit{}
		if err := mission.CheckAttempt(p, m, now); err != nil {
			return err
		}
		if m.IsQuiz() {
			graded, err := mission.ScoreQuiz(m.Questions, sub.QuizAnswers)
			if err != nil {
				return err
			}
			c.score = &graded.Score
			if !graded.Passed {
				c.fail(p, m, now, fmt.Sprintf("Quiz score %.2f is below the %.0f%% pass mark", graded.Score, mission.PassThreshold))
				return nil
			}
		}
		if m.EvidenceRequired && strings.TrimSpace(sub.Evidence) == "" {
			return dErrors.New(dErrors.CodeValidation, "evidence is required for this mission")
		}
		if m.NeedsReview() {
			c.submit(p, m, now)
			return nil
		}
		return s.succeed(p, m, &c, now, areas)
	})
	if s.metrics != nil {
		s.metrics.ObserveCompletionLatency(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, translateProgressErr(err, "failed to complete mission")
	}

	span.SetAttributes(tracer.String(tracer.AttrStatus, string(c.outcome)))
	s.afterCommit(ctx, userID, m, &c, now)
	return c.result, nil
}

// ReviewSubmission approves or rejects a pending evidence submission.
// Approval runs the same success path as an auto-approved completion;
// rejection starts a cooldown.
func (s *Service) ReviewSubmission(ctx context.Context, userID id.UserID, missionID id.MissionID, approved bool) (*models.CompletionResult, error) {
	m, err := s.findMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	areas, err := s.AreaIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var c commit
	_, err = s.progress.Execute(ctx, userID, func(p *pmodels.UserProgress) error {
		c = commit{}
		if _, pending := p.PendingReviews[m.ID]; !pending {
			return dErrors.New(dErrors.CodeInvalidState, "no submission pending review")
		}
		delete(p.PendingReviews, m.ID)
		if !approved {
			c.fail(p, m, now, "Submission rejected by reviewer")
			c.outcome = models.OutcomeRejected
			c.events[0].Kind = events.KindMissionRejected
			return nil
		}
		return s.succeed(p, m, &c, now, areas)
	})
	if err != nil {
		return nil, translateProgressErr(err, "failed to review submission")
	}

	s.logger.InfoContext(ctx, "submission reviewed",
		"user_id", userID,
		"mission_id", missionID,
		"approved", approved,
	)
	s.afterCommit(ctx, userID, m, &c, now)
	return c.result, nil
}

// succeed applies rewards, streak, level and badges to p.
func (s *Service) succeed(p *pmodels.UserProgress, m *models.Mission, c *commit, now time.Time, areas map[id.MissionID]string) error {
	if !p.MarkCompleted(m.ID) {
		return dErrors.New(dErrors.CodeInvalidState, "mission already completed")
	}
	delete(p.Failures, m.ID)
	delete(p.PendingReviews, m.ID)

	today := id.CalendarDay(now, s.location)
	change := progression.Credit(p, m.PointsReward, m.CoinsReward, today, s.levels)
	awards := s.badges.Sweep(p, pmodels.NewSnapshot(p, areas), now)
	p.UpdatedAt = now

	result := &models.CompletionResult{
		Success:       true,
		Status:        models.StatusCompleted,
		Score:         c.score,
		PointsAwarded: m.PointsReward,
		CoinsAwarded:  m.CoinsReward,
		LevelChanged:  change.Changed(),
		Level:         p.Level,
		BadgesAwarded: []id.BadgeID{},
		Message:       "Mission completed",
	}
	c.events = append(c.events, events.Event{
		Kind:       events.KindMissionCompleted,
		UserID:     p.ID,
		MissionID:  m.ID,
		Title:      m.Title,
		Points:     m.PointsReward,
		Coins:      m.CoinsReward,
		Score:      c.score,
		OccurredAt: now,
	})
	if change.Changed() {
		c.events = append(c.events, events.Event{
			Kind:       events.KindLevelUp,
			UserID:     p.ID,
			Level:      change.To,
			LevelName:  s.levels.LevelFor(p.Points).Level.Name,
			Points:     p.Points,
			OccurredAt: now,
		})
	}
	for _, a := range awards {
		result.CoinsAwarded += a.Coins
		result.BadgesAwarded = append(result.BadgesAwarded, a.BadgeID)
		c.events = append(c.events, events.Event{
			Kind:       events.KindBadgeAwarded,
			UserID:     p.ID,
			BadgeID:    a.BadgeID,
			Title:      a.Title,
			Coins:      a.Coins,
			OccurredAt: a.EarnedAt,
		})
	}
	c.result = result
	c.outcome = models.OutcomePassed
	return nil
}

func (c *commit) fail(p *pmodels.UserProgress, m *models.Mission, now time.Time, message string) {
	p.Failures[m.ID] = now
	p.UpdatedAt = now
	retryAfter := mission.CooldownFor(now, now).RetryAfter
	c.result = &models.CompletionResult{
		Success:       false,
		Status:        models.StatusLocked,
		Score:         c.score,
		Level:         p.Level,
		BadgesAwarded: []id.BadgeID{},
		RetryAfter:    &retryAfter,
		Message:       message,
	}
	c.outcome = models.OutcomeFailed
	c.events = append(c.events, events.Event{
		Kind:       events.KindMissionFailed,
		UserID:     p.ID,
		MissionID:  m.ID,
		Title:      m.Title,
		Score:      c.score,
		RetryAfter: &retryAfter,
		OccurredAt: now,
	})
}

func (c *commit) submit(p *pmodels.UserProgress, m *models.Mission, now time.Time) {
	p.PendingReviews[m.ID] = now
	p.UpdatedAt = now
	c.result = &models.CompletionResult{
		Success:       false,
		Status:        models.StatusInReview,
		Level:         p.Level,
		BadgesAwarded: []id.BadgeID{},
		Message:       "Submission received and pending review",
	}
	c.outcome = models.OutcomeInReview
	c.events = append(c.events, events.Event{
		Kind:       events.KindMissionSubmitted,
		UserID:     p.ID,
		MissionID:  m.ID,
		Title:      m.Title,
		OccurredAt: now,
	})
}

// afterCommit runs best-effort side effects once the update is durable.
func (s *Service) afterCommit(ctx context.Context, userID id.UserID, m *models.Mission, c *commit, now time.Time) {
	attempt := &models.Attempt{
		ID:          id.NewAttemptID(),
		UserID:      userID,
		MissionID:   m.ID,
		Outcome:     c.outcome,
		Score:       c.score,
		AttemptedAt: now,
	}
	if err := s.missions.RecordAttempt(ctx, attempt); err != nil {
		s.logger.WarnContext(ctx, "failed to record mission attempt",
			"user_id", userID,
			"mission_id", m.ID,
			"error", err,
		)
	}
	if s.eligibility != nil && c.outcome == models.OutcomePassed {
		s.eligibility.Invalidate(ctx, userID)
	}
	if s.emitter != nil && len(c.events) > 0 {
		s.emitter.Emit(ctx, c.events...)
	}
	if s.metrics != nil {
		s.metrics.IncAttempt(string(c.outcome))
		if c.result != nil && c.result.Success {
			s.metrics.AddPoints(c.result.PointsAwarded)
			if c.result.LevelChanged {
				s.metrics.IncLevelUp()
			}
			for _, b := range c.result.BadgesAwarded {
				s.metrics.IncBadge(b.String())
			}
		}
	}
	s.logger.InfoContext(ctx, "mission attempt committed",
		"user_id", userID,
		"mission_id", m.ID,
		"outcome", c.outcome,
	)
}

// CreateMission adds a mission after validating its content and the
// prerequisite graph it joins.
func (s *Service) CreateMission(ctx context.Context, req *models.CreateMissionRequest) (*models.Mission, error) {
	missionID, err := id.ParseMissionID(req.ID)
	if err != nil {
		return nil, err
	}
	m := &models.Mission{
		ID:               missionID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             models.Type(req.Type),
		Position:         req.Position,
		CompetenceArea:   req.CompetenceArea,
		EvidenceRequired: req.EvidenceRequired,
		AutoApprove:      req.AutoApprove,
		PointsReward:     req.Points,
		CoinsReward:      req.Coins,
		CreatedAt:        requestcontext.Now(ctx),
	}
	for _, p := range req.Prerequisites {
		prereq, err := id.ParseMissionID(p)
		if err != nil {
			return nil, err
		}
		m.Prerequisites = append(m.Prerequisites, prereq)
	}
	for _, q := range req.Questions {
		m.Questions = append(m.Questions, models.Question{
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	if err := mission.Validate(m); err != nil {
		return nil, err
	}

	// An existing id is a conflict, not a graph error; Save still guards the race.
	switch _, err := s.missions.Find(ctx, m.ID); {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "mission already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up mission")
	}
	existing, err := s.missions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list missions")
	}
	if err := mission.ValidateGraph(append(existing, m)); err != nil {
		return nil, err
	}
	if err := s.missions.Save(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "mission already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save mission")
	}
	s.logger.InfoContext(ctx, "mission created",
		"mission_id", m.ID,
		"type", m.Type,
	)
	return m, nil
}

// ListWithStatus returns the catalogue with the user's status per mission.
func (s *Service) ListWithStatus(ctx context.Context, userID id.UserID) ([]models.MissionWithStatus, error) {
	missions, err := s.missions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list missions")
	}
	p, err := s.progress.FindByID(ctx, userID)
	if err != nil {
		return nil, translateProgressErr(err, "failed to load progress")
	}
	snap := pmodels.NewSnapshot(p, areaIndex(missions))
	now := requestcontext.Now(ctx)

	out := make([]models.MissionWithStatus, 0, len(missions))
	for _, m := range missions {
		out = append(out, models.MissionWithStatus{
			Mission: m,
			Status:  mission.StatusFor(snap, m, now),
		})
	}
	return out, nil
}

// Cooldown reports whether the user may attempt the mission now.
func (s *Service) Cooldown(ctx context.Context, userID id.UserID, missionID id.MissionID) (*models.CooldownStatus, error) {
	m, err := s.findMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	p, err := s.progress.FindByID(ctx, userID)
	if err != nil {
		return nil, translateProgressErr(err, "failed to load progress")
	}
	now := requestcontext.Now(ctx)

	failedAt, failed := p.Failures[m.ID]
	if failed {
		if cd := mission.CooldownFor(failedAt, now); cd.Active {
			return &models.CooldownStatus{
				CanAttempt:    false,
				RetryAfter:    &cd.RetryAfter,
				RemainingDays: cd.RemainingDays,
				Message:       cooldownMessage(cd.RemainingDays),
			}, nil
		}
	}
	if err := mission.CheckAttempt(p, m, now); err != nil {
		return &models.CooldownStatus{CanAttempt: false, Message: err.Error()}, nil
	}
	return &models.CooldownStatus{CanAttempt: true, Message: "You can attempt this mission"}, nil
}

func cooldownMessage(days int) string {
	switch days {
	case 0:
		return "You can retry this mission in less than a day"
	case 1:
		return "You can retry this mission in 1 day"
	default:
		return fmt.Sprintf("You can retry this mission in %d days", days)
	}
}

// Attempts returns the user's attempt history for a mission, newest first.
func (s *Service) Attempts(ctx context.Context, userID id.UserID, missionID id.MissionID) ([]*models.Attempt, error) {
	if _, err := s.findMission(ctx, missionID); err != nil {
		return nil, err
	}
	attempts, err := s.missions.ListAttempts(ctx, userID, missionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attempts")
	}
	return attempts, nil
}

// AreaIndex maps every catalogue mission to its competence area.
func (s *Service) AreaIndex(ctx context.Context) (map[id.MissionID]string, error) {
	missions, err := s.missions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list missions")
	}
	return areaIndex(missions), nil
}

func areaIndex(missions []*models.Mission) map[id.MissionID]string {
	index := make(map[id.MissionID]string, len(missions))
	for _, m := range missions {
		index[m.ID] = m.CompetenceArea
	}
	return index
}

func (s *Service) findMission(ctx context.Context, missionID id.MissionID) (*models.Mission, error) {
	m, err := s.missions.Find(ctx, missionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "mission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission")
	}
	return m, nil
}

// translateProgressErr maps store sentinels; domain errors raised inside an
// Execute callback pass through with their code.
func translateProgressErr(err error, msg string) error {
	var domainErr *dErrors.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
