package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"impulsa/internal/platform/privacy"
	"impulsa/internal/progress/metrics"
	"impulsa/internal/progress/models"
	"impulsa/internal/progression"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

// Store persists progress records.
// Error Contract:
// - Create returns sentinel.ErrConflict on a duplicate id or email
// - FindByID and Execute return sentinel.ErrNotFound for an unknown user
type Store interface {
	Create(ctx context.Context, p *models.UserProgress) error
	FindByID(ctx context.Context, userID id.UserID) (*models.UserProgress, error)
	Execute(ctx context.Context, userID id.UserID, fn func(*models.UserProgress) error) (*models.UserProgress, error)
	ListTop(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type EligibilityInvalidator interface {
	Invalidate(ctx context.Context, userID id.UserID)
}

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// View is a progress record placed on the level table.
type View struct {
	Progress  *models.UserProgress
	Placement progression.Placement
}

type Service struct {
	store       Store
	levels      *progression.LevelTable
	eligibility EligibilityInvalidator
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLevelTable(t *progression.LevelTable) Option {
	return func(s *Service) { s.levels = t }
}

func WithEligibility(inv EligibilityInvalidator) Option {
	return func(s *Service) { s.eligibility = inv }
}

func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("progress.New: store is required")
	}
	s := &Service{
		store:  store,
		levels: progression.DefaultLevelTable(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an empty progress record.
func (s *Service) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.UserProgress, error) {
	userID := id.NewUserID()
	if req.UserID != "" {
		parsed, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, err
		}
		userID = parsed
	}

	p := models.New(userID, req.Name, req.Email, requestcontext.Now(ctx))
	progression.Relevel(p, s.levels)
	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "user already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	if s.metrics != nil {
		s.metrics.IncUserRegistered()
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", userID, "email", privacy.MaskEmail(p.Email))
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*View, error) {
	p, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, translateErr(err, "failed to load progress")
	}
	return &View{Progress: p, Placement: s.levels.LevelFor(p.Points)}, nil
}

// SetDocumentStatus records a document review. Approvals and revocations
// change eligibility, so the user's cached results are dropped.
func (s *Service) SetDocumentStatus(ctx context.Context, userID id.UserID, docType string, status models.DocumentStatus) (*models.UserProgress, error) {
	docType = strings.ToLower(strings.TrimSpace(docType))
	if docType == "" || len(docType) > 64 {
		return nil, dErrors.New(dErrors.CodeValidation, "document type must be 1-64 characters")
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown document status %q", status))
	}

	now := requestcontext.Now(ctx)
	p, err := s.store.Execute(ctx, userID, func(p *models.UserProgress) error {
		p.Documents[docType] = status
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translateErr(err, "failed to update document status")
	}

	if s.eligibility != nil {
		s.eligibility.Invalidate(ctx, userID)
	}
	if s.metrics != nil {
		s.metrics.IncDocumentUpdate(string(status))
	}
	s.logger.InfoContext(ctx, "document status updated",
		"user_id", userID,
		"document_type", docType,
		"status", status,
	)
	return p, nil
}

// Leaderboard ranks users by points. A limit <= 0 uses the default size.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	limit = min(limit, maxLeaderboardSize)
	entries, err := s.store.ListTop(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load leaderboard")
	}
	return entries, nil
}

func translateErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
