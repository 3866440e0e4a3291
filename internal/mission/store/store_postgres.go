package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

// PostgresStore persists missions and attempts. Prerequisites and quiz
// questions are JSONB columns on the mission row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const missionColumns = `id, title, description, type, position, competence_area, prerequisites,
	evidence_required, auto_approve, points_reward, coins_reward, questions, created_at`

func (s *PostgresStore) Save(ctx context.Context, m *models.Mission) error {
	prereqs, err := json.Marshal(nonNil(m.Prerequisites))
	if err != nil {
		return fmt.Errorf("encode prerequisites: %w", err)
	}
	questions, err := json.Marshal(nonNil(m.Questions))
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	query := `
		INSERT INTO missions (` + missionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var storedID string
	err = s.db.QueryRowContext(ctx, query,
		string(m.ID), m.Title, m.Description, string(m.Type), m.Position, m.CompetenceArea, prereqs,
		m.EvidenceRequired, m.AutoApprove, m.PointsReward, m.CoinsReward, questions, m.CreatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save mission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, missionID id.MissionID) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1`
	m, err := scanMission(s.db.QueryRowContext(ctx, query, string(missionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find mission: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Mission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+missionColumns+` FROM missions ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var missions []*models.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missions: %w", err)
	}
	return missions, nil
}

func (s *PostgresStore) RecordAttempt(ctx context.Context, a *models.Attempt) error {
	query := `
		INSERT INTO mission_attempts (id, user_id, mission_id, outcome, score, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var score sql.NullFloat64
	if a.Score != nil {
		score = sql.NullFloat64{Float64: *a.Score, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		a.ID.String(), a.UserID.String(), string(a.MissionID), string(a.Outcome), score, a.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAttempts(ctx context.Context, userID id.UserID, missionID id.MissionID) ([]*models.Attempt, error) {
	query := `
		SELECT id, user_id, mission_id, outcome, score, attempted_at
		FROM mission_attempts
		WHERE user_id = $1 AND mission_id = $2
		ORDER BY attempted_at DESC, seq DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String(), string(missionID))
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.Attempt
	for rows.Next() {
		var (
			a                        models.Attempt
			attemptID, user, outcome string
			mission                  string
			score                    sql.NullFloat64
		)
		if err := rows.Scan(&attemptID, &user, &mission, &outcome, &score, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := a.ID.UnmarshalText([]byte(attemptID)); err != nil {
			return nil, fmt.Errorf("parse attempt id: %w", err)
		}
		if a.UserID, err = id.ParseUserID(user); err != nil {
			return nil, fmt.Errorf("parse attempt user: %w", err)
		}
		a.MissionID = id.MissionID(mission)
		a.Outcome = models.Outcome(outcome)
		if score.Valid {
			v := score.Float64
			a.Score = &v
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*models.Mission, error) {
	var (
		m                  models.Mission
		missionID, kind    string
		prereqs, questions []byte
	)
	err := row.Scan(&missionID, &m.Title, &m.Description, &kind, &m.Position, &m.CompetenceArea, &prereqs,
		&m.EvidenceRequired, &m.AutoApprove, &m.PointsReward, &m.CoinsReward, &questions, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ID = id.MissionID(missionID)
	m.Type = models.Type(kind)
	if err := json.Unmarshal(prereqs, &m.Prerequisites); err != nil {
		return nil, fmt.Errorf("decode prerequisites: %w", err)
	}
	if err := json.Unmarshal(questions, &m.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return &m, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
