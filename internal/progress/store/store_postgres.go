package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"impulsa/internal/platform/database"
	"impulsa/internal/progress/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

// PostgresStore persists progress across user_progress and its child tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectProgress = `
	SELECT id, name, email, points, coins, current_streak, best_streak, last_activity,
	       level, failures, pending_reviews, documents, created_at, updated_at
	FROM user_progress
	WHERE id = $1
`

func (s *PostgresStore) Create(ctx context.Context, p *models.UserProgress) error {
	if p == nil {
		return fmt.Errorf("progress record is required")
	}
	failures, pending, documents, err := encodeMaps(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO user_progress (id, name, email, points, coins, current_streak, best_streak,
			last_activity, level, failures, pending_reviews, documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT DO NOTHING
		RETURNING id
	`
	var storedID uuid.UUID
	err = s.db.QueryRowContext(ctx, query,
		uuid.UUID(p.ID), p.Name, p.Email,
		p.Points, p.Coins, p.CurrentStreak, p.BestStreak,
		p.LastActivity, p.Level,
		failures, pending, documents,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.UserProgress, error) {
	return loadProgress(ctx, s.db, selectProgress, userID)
}

// Execute locks the progress row, runs fn on it and writes it back in the
// same transaction. Nothing is written when fn fails.
func (s *PostgresStore) Execute(ctx context.Context, userID id.UserID, fn func(*models.UserProgress) error) (*models.UserProgress, error) {
	var out *models.UserProgress
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		p, err := loadProgress(ctx, tx, selectProgress+" FOR UPDATE", userID)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := saveProgress(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListTop(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, name, points, level
		FROM user_progress
		ORDER BY points DESC, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var userID uuid.UUID
		entry := models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&userID, &entry.Name, &entry.Points, &entry.Level); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entry.UserID = id.UserID(userID)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

func loadProgress(ctx context.Context, exec dbExecutor, query string, userID id.UserID) (*models.UserProgress, error) {
	var (
		p                            models.UserProgress
		rawID                        uuid.UUID
		lastActivity                 sql.NullTime
		failures, pending, documents []byte
	)
	err := exec.QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&rawID, &p.Name, &p.Email,
		&p.Points, &p.Coins, &p.CurrentStreak, &p.BestStreak, &lastActivity,
		&p.Level, &failures, &pending, &documents,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	p.ID = id.UserID(rawID)
	if lastActivity.Valid {
		day := lastActivity.Time.UTC()
		p.LastActivity = &day
	}
	if err := json.Unmarshal(failures, &p.Failures); err != nil {
		return nil, fmt.Errorf("decode failures: %w", err)
	}
	if err := json.Unmarshal(pending, &p.PendingReviews); err != nil {
		return nil, fmt.Errorf("decode pending reviews: %w", err)
	}
	if err := json.Unmarshal(documents, &p.Documents); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	p.Normalize()

	if err := loadCompleted(ctx, exec, &p); err != nil {
		return nil, err
	}
	if err := loadBadges(ctx, exec, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func loadCompleted(ctx context.Context, exec dbExecutor, p *models.UserProgress) error {
	rows, err := exec.QueryContext(ctx,
		`SELECT mission_id FROM user_completed_missions WHERE user_id = $1 ORDER BY seq`,
		uuid.UUID(p.ID))
	if err != nil {
		return fmt.Errorf("list completed missions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var missionID string
		if err := rows.Scan(&missionID); err != nil {
			return fmt.Errorf("scan completed mission: %w", err)
		}
		p.CompletedMissions = append(p.CompletedMissions, id.MissionID(missionID))
	}
	return rows.Err()
}

func loadBadges(ctx context.Context, exec dbExecutor, p *models.UserProgress) error {
	rows, err := exec.QueryContext(ctx,
		`SELECT badge_id, earned_at FROM user_badges WHERE user_id = $1`,
		uuid.UUID(p.ID))
	if err != nil {
		return fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			badgeID  string
			earnedAt time.Time
		)
		if err := rows.Scan(&badgeID, &earnedAt); err != nil {
			return fmt.Errorf("scan badge: %w", err)
		}
		p.Badges[id.BadgeID(badgeID)] = earnedAt
	}
	return rows.Err()
}

// saveProgress rewrites the scalar row and appends child rows. Completed
// missions and badges only ever grow, so existing rows are left alone.
func saveProgress(ctx context.Context, exec dbExecutor, p *models.UserProgress) error {
	failures, pending, documents, err := encodeMaps(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE user_progress
		SET points = $2, coins = $3, current_streak = $4, best_streak = $5, last_activity = $6,
		    level = $7, failures = $8, pending_reviews = $9, documents = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := exec.ExecContext(ctx, query,
		uuid.UUID(p.ID),
		p.Points, p.Coins, p.CurrentStreak, p.BestStreak, p.LastActivity,
		p.Level, failures, pending, documents, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}

	for seq, missionID := range p.CompletedMissions {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO user_completed_missions (user_id, mission_id, seq, completed_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, mission_id) DO NOTHING
		`, uuid.UUID(p.ID), string(missionID), seq, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert completed mission: %w", err)
		}
	}
	for badgeID, earnedAt := range p.Badges {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO user_badges (user_id, badge_id, earned_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, badge_id) DO NOTHING
		`, uuid.UUID(p.ID), string(badgeID), earnedAt)
		if err != nil {
			return fmt.Errorf("insert badge: %w", err)
		}
	}
	return nil
}

func encodeMaps(p *models.UserProgress) (failures, pending, documents []byte, err error) {
	p.Normalize()
	if failures, err = json.Marshal(p.Failures); err != nil {
		return nil, nil, nil, fmt.Errorf("encode failures: %w", err)
	}
	if pending, err = json.Marshal(p.PendingReviews); err != nil {
		return nil, nil, nil, fmt.Errorf("encode pending reviews: %w", err)
	}
	if documents, err = json.Marshal(p.Documents); err != nil {
		return nil, nil, nil, fmt.Errorf("encode documents: %w", err)
	}
	return failures, pending, documents, nil
}
