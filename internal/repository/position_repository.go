package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// PositionRepository provides data access methods for the position table.
// The engine only reads positions; writes happen through explicit user
// actions (add/remove).
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPositions retrieves all positions ordered by acquisition date.
// Returns an empty slice if no positions exist.
func (s *PositionRepository) GetPositions() ([]model.Position, error) {
	query := `
		SELECT id, symbol, quantity, cost_basis, acquired_at
		FROM position
		ORDER BY acquired_at, symbol
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var p model.Position

		err := rows.Scan(
			&p.ID,
			&p.Symbol,
			&p.Quantity,
			&p.CostBasis,
			&p.AcquiredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// GetPositionOnID retrieves a single position by ID.
func (s *PositionRepository) GetPositionOnID(positionID string) (model.Position, error) {
	query := `
		SELECT id, symbol, quantity, cost_basis, acquired_at
		FROM position
		WHERE id = ?
	`

	var p model.Position

	err := s.db.QueryRow(query, positionID).Scan(
		&p.ID,
		&p.Symbol,
		&p.Quantity,
		&p.CostBasis,
		&p.AcquiredAt,
	)
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query position: %w", err)
	}

	return p, nil
}

// CreatePosition inserts a new position and returns it with a generated ID.
func (s *PositionRepository) CreatePosition(symbol string, quantity, costBasis float64, acquiredAt time.Time) (model.Position, error) {
	p := model.Position{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Quantity:   quantity,
		CostBasis:  costBasis,
		AcquiredAt: acquiredAt.UTC(),
	}

	query := `
		INSERT INTO position (id, symbol, quantity, cost_basis, acquired_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, p.ID, p.Symbol, p.Quantity, p.CostBasis, p.AcquiredAt)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to insert position: %w", err)
	}

	return p, nil
}

// DeletePosition removes a position. Associated alert rules are removed by
// the ON DELETE CASCADE constraint.
func (s *PositionRepository) DeletePosition(positionID string) error {
	result, err := s.db.Exec("DELETE FROM position WHERE id = ?", positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}
