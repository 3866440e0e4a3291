package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"impulsa/internal/eligibility/condition"
	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
)

// foreignKeyViolation is the Postgres SQLSTATE for a missing parent row.
const foreignKeyViolation = "23503"

// PostgresStore persists targets and rules. Rule conditions are stored as
// JSONB in the wire format and decoded leniently on read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveTarget(ctx context.Context, t *models.Target) error {
	query := `
		INSERT INTO eligibility_targets (id, kind, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var storedID string
	err := s.db.QueryRowContext(ctx, query,
		string(t.ID), string(t.Kind), t.Title, t.Description, t.CreatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save target: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTarget(ctx context.Context, targetID id.TargetID) (*models.Target, error) {
	query := `SELECT id, kind, title, description, created_at FROM eligibility_targets WHERE id = $1`
	t, err := scanTarget(s.db.QueryRowContext(ctx, query, string(targetID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find target: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTargets(ctx context.Context) ([]*models.Target, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, title, description, created_at FROM eligibility_targets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []*models.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return targets, nil
}

func (s *PostgresStore) SaveRule(ctx context.Context, r *models.Rule) error {
	cond, err := condition.Marshal(r.Condition.Node)
	if err != nil {
		return fmt.Errorf("encode rule condition: %w", err)
	}
	query := `
		INSERT INTO eligibility_rules (id, target_id, name, description, weight, condition, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var storedID string
	err = s.db.QueryRowContext(ctx, query,
		string(r.ID), string(r.TargetID), r.Name, r.Description, r.Weight, cond, r.Position, r.CreatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("save rule: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRules(ctx context.Context, targetID id.TargetID) ([]*models.Rule, error) {
	query := `
		SELECT id, target_id, name, description, weight, condition, position, created_at
		FROM eligibility_rules
		WHERE target_id = $1
		ORDER BY position, created_at
	`
	rows, err := s.db.QueryContext(ctx, query, string(targetID))
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.Rule
	for rows.Next() {
		var (
			r             models.Rule
			ruleID, tgtID string
			cond          []byte
		)
		if err := rows.Scan(&ruleID, &tgtID, &r.Name, &r.Description, &r.Weight, &cond, &r.Position, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.ID = id.RuleID(ruleID)
		r.TargetID = id.TargetID(tgtID)
		r.Condition = condition.Expr{Node: condition.Decode(cond)}
		rules = append(rules, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (*models.Target, error) {
	var (
		t          models.Target
		targetID   string
		targetKind string
	)
	if err := row.Scan(&targetID, &targetKind, &t.Title, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TargetID(targetID)
	t.Kind = models.TargetKind(targetKind)
	return &t, nil
}
