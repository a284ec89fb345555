package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// AlertRuleRepository provides data access methods for the alert_rule table.
// The fired flag is the only mutable engine state; its transitions go through
// MarkFired and Reset so that single-fire semantics hold under concurrent
// evaluation.
type AlertRuleRepository struct {
	db *sql.DB
}

// NewAlertRuleRepository creates a new AlertRuleRepository with the provided database connection.
func NewAlertRuleRepository(db *sql.DB) *AlertRuleRepository {
	return &AlertRuleRepository{db: db}
}

// CreateRule inserts a new alert rule. Rules are keyed by
// (position_id, kind, threshold); creating an identical rule twice collapses
// onto the existing row, which is returned alongside ErrDuplicateRule.
func (s *AlertRuleRepository) CreateRule(positionID string, kind model.AlertKind, threshold float64) (model.AlertRule, error) {
	rule := model.AlertRule{
		ID:         uuid.NewString(),
		PositionID: positionID,
		Kind:       kind,
		Threshold:  threshold,
		Fired:      false,
		CreatedAt:  time.Now().UTC(),
	}

	query := `
		INSERT INTO alert_rule (id, position_id, kind, threshold, fired, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`

	_, err := s.db.Exec(query, rule.ID, rule.PositionID, string(rule.Kind), rule.Threshold, rule.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := s.getRuleOnKey(positionID, kind, threshold)
			if lookupErr != nil {
				return model.AlertRule{}, lookupErr
			}
			return existing, apperrors.ErrDuplicateRule
		}
		return model.AlertRule{}, fmt.Errorf("failed to insert alert rule: %w", err)
	}

	return rule, nil
}

// GetRulesOnPositionID retrieves all rules for a position.
// Returns an empty slice if the position has no rules.
func (s *AlertRuleRepository) GetRulesOnPositionID(positionID string) ([]model.AlertRule, error) {
	query := `
		SELECT id, position_id, kind, threshold, fired, created_at
		FROM alert_rule
		WHERE position_id = ?
		ORDER BY created_at
	`
	return s.queryRules(query, positionID)
}

// GetActiveRulesOnPositionID retrieves rules for a position that have not
// fired. Fired rules are excluded at the query so the evaluator never pays
// for re-evaluating them.
func (s *AlertRuleRepository) GetActiveRulesOnPositionID(positionID string) ([]model.AlertRule, error) {
	query := `
		SELECT id, position_id, kind, threshold, fired, created_at
		FROM alert_rule
		WHERE position_id = ? AND fired = 0
		ORDER BY created_at
	`
	return s.queryRules(query, positionID)
}

// GetAllRules retrieves every alert rule.
func (s *AlertRuleRepository) GetAllRules() ([]model.AlertRule, error) {
	query := `
		SELECT id, position_id, kind, threshold, fired, created_at
		FROM alert_rule
		ORDER BY created_at
	`
	return s.queryRules(query)
}

// MarkFired transitions a rule to fired. The conditional update makes the
// call idempotent and serializes the trigger-then-mark step: only the caller
// that flips the flag observes transitioned = true, so a rule can produce at
// most one notification per arming.
func (s *AlertRuleRepository) MarkFired(ruleID string) (bool, error) {
	result, err := s.db.Exec("UPDATE alert_rule SET fired = 1 WHERE id = ? AND fired = 0", ruleID)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert rule fired: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Nothing updated: either already fired (idempotent no-op) or missing.
	if _, err := s.GetRuleOnID(ruleID); err != nil {
		return false, err
	}
	return false, nil
}

// ResetRule re-arms a fired rule so it can trigger again.
func (s *AlertRuleRepository) ResetRule(ruleID string) error {
	result, err := s.db.Exec("UPDATE alert_rule SET fired = 0 WHERE id = ?", ruleID)
	if err != nil {
		return fmt.Errorf("failed to reset alert rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrRuleNotFound
	}

	return nil
}

// DeleteRule removes an alert rule.
func (s *AlertRuleRepository) DeleteRule(ruleID string) error {
	result, err := s.db.Exec("DELETE FROM alert_rule WHERE id = ?", ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrRuleNotFound
	}

	return nil
}

// GetRuleOnID retrieves a single rule by ID.
func (s *AlertRuleRepository) GetRuleOnID(ruleID string) (model.AlertRule, error) {
	query := `
		SELECT id, position_id, kind, threshold, fired, created_at
		FROM alert_rule
		WHERE id = ?
	`

	var r model.AlertRule
	var kind string

	err := s.db.QueryRow(query, ruleID).Scan(
		&r.ID,
		&r.PositionID,
		&kind,
		&r.Threshold,
		&r.Fired,
		&r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.AlertRule{}, apperrors.ErrRuleNotFound
	}
	if err != nil {
		return model.AlertRule{}, fmt.Errorf("failed to query alert rule: %w", err)
	}

	r.Kind = model.AlertKind(kind)
	return r, nil
}

// getRuleOnKey retrieves a rule by its logical identity.
func (s *AlertRuleRepository) getRuleOnKey(positionID string, kind model.AlertKind, threshold float64) (model.AlertRule, error) {
	query := `
		SELECT id, position_id, kind, threshold, fired, created_at
		FROM alert_rule
		WHERE position_id = ? AND kind = ? AND threshold = ?
	`

	var r model.AlertRule
	var kindStr string

	err := s.db.QueryRow(query, positionID, string(kind), threshold).Scan(
		&r.ID,
		&r.PositionID,
		&kindStr,
		&r.Threshold,
		&r.Fired,
		&r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.AlertRule{}, apperrors.ErrRuleNotFound
	}
	if err != nil {
		return model.AlertRule{}, fmt.Errorf("failed to query alert rule: %w", err)
	}

	r.Kind = model.AlertKind(kindStr)
	return r, nil
}

// queryRules runs a rule query and scans the result set.
func (s *AlertRuleRepository) queryRules(query string, args ...any) ([]model.AlertRule, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert_rule table: %w", err)
	}
	defer rows.Close()

	rules := []model.AlertRule{}

	for rows.Next() {
		var r model.AlertRule
		var kind string

		err := rows.Scan(
			&r.ID,
			&r.PositionID,
			&kind,
			&r.Threshold,
			&r.Fired,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert_rule table results: %w", err)
		}

		r.Kind = model.AlertKind(kind)
		rules = append(rules, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert_rule table: %w", err)
	}

	return rules, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
