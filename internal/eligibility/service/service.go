package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"impulsa/internal/eligibility"
	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/metrics"
	"impulsa/internal/eligibility/models"
	"impulsa/internal/platform/tracer"
	pmodels "impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// RuleStore persists targets and their rules.
// Error Contract:
// - FindTarget returns sentinel.ErrNotFound for an unknown target
// - SaveTarget and SaveRule return sentinel.ErrConflict on duplicate ids
// - SaveRule returns sentinel.ErrNotFound when the target does not exist
type RuleStore interface {
	FindTarget(ctx context.Context, targetID id.TargetID) (*models.Target, error)
	ListTargets(ctx context.Context) ([]*models.Target, error)
	ListRules(ctx context.Context, targetID id.TargetID) ([]*models.Rule, error)
	SaveTarget(ctx context.Context, t *models.Target) error
	SaveRule(ctx context.Context, r *models.Rule) error
}

// ProgressReader looks up a user's progress record.
type ProgressReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*pmodels.UserProgress, error)
}

// AreaIndexer maps every catalogue mission to its competence area.
type AreaIndexer interface {
	AreaIndex(ctx context.Context) (map[id.MissionID]string, error)
}

// Cache holds recent results. Get returns sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error)
	Set(ctx context.Context, res *models.Result) error
	InvalidateUser(ctx context.Context, userID id.UserID) error
	InvalidateTarget(ctx context.Context, targetID id.TargetID) error
}

// maxConcurrentTargets bounds fan-out in EvaluateAll.
const maxConcurrentTargets = 8

// Service evaluates eligibility and manages targets and rules.
type Service struct {
	rules      RuleStore
	progress   ProgressReader
	areas      AreaIndexer
	calculator *eligibility.Calculator
	cache      Cache
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
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

// WithCache enables result caching. Without it every call evaluates.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithCalculator(c *eligibility.Calculator) Option {
	return func(s *Service) {
		s.calculator = c
	}
}

func New(rules RuleStore, progress ProgressReader, areas AreaIndexer, opts ...Option) *Service {
	if rules == nil {
		panic("eligibility.New: rules store is required")
	}
	if progress == nil {
		panic("eligibility.New: progress reader is required")
	}
	if areas == nil {
		panic("eligibility.New: area indexer is required")
	}
	s := &Service{
		rules:    rules,
		progress: progress,
		areas:    areas,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.calculator == nil {
		s.calculator = eligibility.NewCalculator(condition.NewEvaluator(condition.WithLogger(s.logger)))
	}
	return s
}

// Evaluate returns the user's standing against one target.
func (s *Service) Evaluate(ctx context.Context, userID id.UserID, targetID id.TargetID) (res *models.Result, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEligibilityEvaluate,
		tracer.String(tracer.AttrUserID, userID.String()),
		tracer.String(tracer.AttrTargetID, targetID.String()),
	)
	defer func() { span.End(err) }()

	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	if cached, ok := s.cached(ctx, userID, targetID); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		return cached, nil
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	target, err := s.findTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	res, err = s.evaluateTarget(ctx, snap, target.ID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		tracer.String(tracer.AttrStatus, string(res.Status)),
		tracer.Float64(tracer.AttrPercentage, res.Percentage),
	)
	return res, nil
}

// EvaluateAll scores the user against every target, in target id order.
// The snapshot is loaded once and shared across targets.
func (s *Service) EvaluateAll(ctx context.Context, userID id.UserID) (results []*models.Result, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEligibilityEvaluateAll,
		tracer.String(tracer.AttrUserID, userID.String()),
	)
	defer func() { span.End(err) }()

	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	targets, err := s.rules.ListTargets(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list targets")
	}
	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	results = make([]*models.Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTargets)
	for i, target := range targets {
		g.Go(func() error {
			if cached, ok := s.cached(gctx, userID, target.ID); ok {
				results[i] = cached
				return nil
			}
			res, err := s.evaluateTarget(gctx, snap, target.ID)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GeneralStanding is the verdict when no target is named. It carries no
// rules and is therefore always eligible, but the user must exist.
func (s *Service) GeneralStanding(ctx context.Context, userID id.UserID) (*models.Result, error) {
	if _, err := s.progress.FindByID(ctx, userID); err != nil {
		return nil, translateProgressErr(err)
	}
	return &models.Result{
		UserID:      userID,
		Status:      models.StatusEligible,
		Percentage:  100,
		Missing:     []models.MissingRequirement{},
		EvaluatedAt: requestcontext.Now(ctx),
	}, nil
}

// CreateTarget registers a new event or reward.
func (s *Service) CreateTarget(ctx context.Context, req *models.CreateTargetRequest) (*models.Target, error) {
	targetID, err := id.ParseTargetID(req.ID)
	if err != nil {
		return nil, err
	}
	kind := models.TargetKind(req.Kind)
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid target kind: %s", req.Kind))
	}
	target := &models.Target{
		ID:          targetID,
		Kind:        kind,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.rules.SaveTarget(ctx, target); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "target already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save target")
	}
	s.logger.InfoContext(ctx, "eligibility target created",
		"target_id", target.ID,
		"kind", target.Kind,
	)
	return target, nil
}

// AddRule appends a rule to a target. The condition is parsed strictly so
// authoring mistakes are rejected here instead of failing closed later.
func (s *Service) AddRule(ctx context.Context, targetID id.TargetID, req *models.AddRuleRequest) (*models.Rule, error) {
	ruleID, err := id.ParseRuleID(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Weight == nil || *req.Weight < 0 || *req.Weight > 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "weight must be between 0 and 1")
	}
	node, err := condition.ParseStrict(req.Condition)
	if err != nil {
		return nil, err
	}
	if _, err := s.findTarget(ctx, targetID); err != nil {
		return nil, err
	}
	existing, err := s.rules.ListRules(ctx, targetID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rules")
	}

	rule := &models.Rule{
		ID:          ruleID,
		TargetID:    targetID,
		Name:        req.Name,
		Description: req.Description,
		Weight:      *req.Weight,
		Condition:   condition.Expr{Node: node},
		Position:    nextPosition(existing),
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.rules.SaveRule(ctx, rule); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "rule already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "target not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save rule")
		}
	}
	if s.metrics != nil {
		s.metrics.RulesAuthored.Inc()
	}
	if s.cache != nil {
		if err := s.cache.InvalidateTarget(ctx, targetID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate cached eligibility for target",
				"target_id", targetID,
				"error", err,
			)
		}
	}
	s.logger.InfoContext(ctx, "eligibility rule added",
		"target_id", targetID,
		"rule_id", rule.ID,
		"kind", condition.Kind(node),
	)
	return rule, nil
}

// Invalidate drops cached results for the user. Failures are logged, not
// returned: a stale entry expires with the TTL anyway.
func (s *Service) Invalidate(ctx context.Context, userID id.UserID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cached eligibility",
			"user_id", userID,
			"error", err,
		)
	}
}

func (s *Service) evaluateTarget(ctx context.Context, snap pmodels.Snapshot, targetID id.TargetID) (*models.Result, error) {
	start := time.Now()
	rules, err := s.rules.ListRules(ctx, targetID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rules")
	}
	verdict := s.calculator.Calculate(ctx, snap, rules)
	res := &models.Result{
		TargetID:    targetID,
		UserID:      snap.Progress.ID,
		Status:      verdict.Status,
		Percentage:  verdict.Percentage,
		Missing:     verdict.Missing,
		EvaluatedAt: requestcontext.Now(ctx),
	}
	if s.metrics != nil {
		s.metrics.IncEvaluation(string(res.Status))
		s.metrics.ObserveEvaluationLatency(time.Since(start).Seconds())
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, res); err != nil {
			s.logger.WarnContext(ctx, "failed to cache eligibility",
				"user_id", res.UserID,
				"target_id", targetID,
				"error", err,
			)
		}
	}
	return res, nil
}

func (s *Service) cached(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, err := s.cache.Get(ctx, userID, targetID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "eligibility cache read failed",
				"user_id", userID,
				"target_id", targetID,
				"error", err,
			)
		}
		if s.metrics != nil {
			s.metrics.IncCacheMiss()
		}
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.IncCacheHit()
	}
	return res, true
}

// loadSnapshot fetches progress and the area index concurrently.
func (s *Service) loadSnapshot(ctx context.Context, userID id.UserID) (pmodels.Snapshot, error) {
	var (
		progress *pmodels.UserProgress
		areas    map[id.MissionID]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.progress.FindByID(gctx, userID)
		if err != nil {
			return translateProgressErr(err)
		}
		progress = p
		return nil
	})
	g.Go(func() error {
		index, err := s.areas.AreaIndex(gctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mission areas")
		}
		areas = index
		return nil
	})
	if err := g.Wait(); err != nil {
		return pmodels.Snapshot{}, err
	}
	return pmodels.NewSnapshot(progress, areas), nil
}

func (s *Service) findTarget(ctx context.Context, targetID id.TargetID) (*models.Target, error) {
	target, err := s.rules.FindTarget(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "target not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load target")
	}
	return target, nil
}

func translateProgressErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load progress")
}

func nextPosition(rules []*models.Rule) int {
	next := 0
	for _, r := range rules {
		next = max(next, r.Position+1)
	}
	return next
}
