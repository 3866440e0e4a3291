package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"impulsa/internal/events"
	"impulsa/internal/notification/models"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
)

// Store persists notifications.
// Error Contract:
// - Save returns sentinel.ErrConflict for a duplicate id
// - MarkRead returns sentinel.ErrNotFound when the user does not own the notification
type Store interface {
	Save(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID id.UserID, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) (*models.Notification, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service writes inbox notifications from progression events and serves
// the inbox.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("notification.New: store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle implements events.Sink. Events with no inbox message are ignored.
func (s *Service) Handle(ctx context.Context, e events.Event) error {
	n, ok := fromEvent(e)
	if !ok {
		return nil
	}
	if err := s.store.Save(ctx, n); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return fmt.Errorf("save notification for %s: %w", e.Kind, err)
	}
	return nil
}

func fromEvent(e events.Event) (*models.Notification, bool) {
	// Reusing the event id makes redelivery idempotent.
	notificationID, err := id.ParseNotificationID(e.ID)
	if err != nil || notificationID.IsNil() {
		notificationID = id.NewNotificationID()
	}
	n := &models.Notification{
		ID:        notificationID,
		UserID:    e.UserID,
		CreatedAt: e.OccurredAt,
	}
	switch e.Kind {
	case events.KindMissionCompleted:
		n.Kind = models.KindMissionCompleted
		n.Title = "Mission completed"
		n.Message = fmt.Sprintf("You completed %q and earned %d points and %d coins.", e.Title, e.Points, e.Coins)
	case events.KindMissionFailed, events.KindMissionRejected:
		n.Kind = models.KindMissionFailed
		n.Title = "Mission not passed"
		n.Message = fmt.Sprintf("%q was not passed.", e.Title)
		if e.Score != nil {
			n.Message = fmt.Sprintf("%q was not passed with a score of %.2f.", e.Title, *e.Score)
		}
		if e.RetryAfter != nil {
			n.Message += " You can retry after " + e.RetryAfter.Format("2006-01-02") + "."
		}
	case events.KindLevelUp:
		n.Kind = models.KindLevelUp
		n.Title = "Level up"
		n.Message = fmt.Sprintf("You reached level %d (%s).", e.Level, e.LevelName)
	case events.KindBadgeAwarded:
		n.Kind = models.KindBadgeAwarded
		n.Title = "New badge"
		n.Message = fmt.Sprintf("You earned the %q badge.", e.Title)
		if e.Coins > 0 {
			n.Message = fmt.Sprintf("You earned the %q badge and %d coins.", e.Title, e.Coins)
		}
	default:
		return nil, false
	}
	return n, true
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID id.UserID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	out, err := s.store.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) (*models.Notification, error) {
	n, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	return n, nil
}
