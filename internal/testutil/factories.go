package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	// Simple creation with defaults
//	position := testutil.NewPosition().Build(t, db)
//
//	// Customized position
//	position := testutil.NewPosition().
//	    WithSymbol("MSFT").
//	    WithQuantity(5).
//	    WithCostBasis(310.50).
//	    Build(t, db)
type PositionBuilder struct {
	ID         string
	Symbol     string
	Quantity   float64
	CostBasis  float64
	AcquiredAt time.Time
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition() *PositionBuilder {
	return &PositionBuilder{
		ID:         MakeID(),
		Symbol:     "AAPL",
		Quantity:   10,
		CostBasis:  100,
		AcquiredAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PositionBuilder) WithID(id string) *PositionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *PositionBuilder) WithSymbol(symbol string) *PositionBuilder {
	b.Symbol = symbol
	return b
}

// WithQuantity sets a custom quantity.
func (b *PositionBuilder) WithQuantity(quantity float64) *PositionBuilder {
	b.Quantity = quantity
	return b
}

// WithCostBasis sets a custom cost basis.
func (b *PositionBuilder) WithCostBasis(costBasis float64) *PositionBuilder {
	b.CostBasis = costBasis
	return b
}

// WithAcquiredAt sets a custom acquisition date.
func (b *PositionBuilder) WithAcquiredAt(acquiredAt time.Time) *PositionBuilder {
	b.AcquiredAt = acquiredAt
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	query := `
		INSERT INTO position (id, symbol, quantity, cost_basis, acquired_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Quantity, b.CostBasis, b.AcquiredAt)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return model.Position{
		ID:         b.ID,
		Symbol:     b.Symbol,
		Quantity:   b.Quantity,
		CostBasis:  b.CostBasis,
		AcquiredAt: b.AcquiredAt,
	}
}

// AlertRuleBuilder provides a fluent interface for creating test alert rules.
type AlertRuleBuilder struct {
	ID         string
	PositionID string
	Kind       model.AlertKind
	Threshold  float64
	Fired      bool
	CreatedAt  time.Time
}

// NewAlertRule creates an AlertRuleBuilder with sensible defaults for the
// given position.
func NewAlertRule(positionID string) *AlertRuleBuilder {
	return &AlertRuleBuilder{
		ID:         MakeID(),
		PositionID: positionID,
		Kind:       model.PriceAbove,
		Threshold:  150,
		Fired:      false,
		CreatedAt:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithKind sets a custom alert kind.
func (b *AlertRuleBuilder) WithKind(kind model.AlertKind) *AlertRuleBuilder {
	b.Kind = kind
	return b
}

// WithThreshold sets a custom threshold.
func (b *AlertRuleBuilder) WithThreshold(threshold float64) *AlertRuleBuilder {
	b.Threshold = threshold
	return b
}

// AlreadyFired marks the rule as fired.
func (b *AlertRuleBuilder) AlreadyFired() *AlertRuleBuilder {
	b.Fired = true
	return b
}

// Build creates the alert rule in the database and returns it.
func (b *AlertRuleBuilder) Build(t *testing.T, db *sql.DB) model.AlertRule {
	t.Helper()

	query := `
		INSERT INTO alert_rule (id, position_id, kind, threshold, fired, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PositionID, string(b.Kind), b.Threshold, b.Fired, b.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test alert rule: %v", err)
	}

	return model.AlertRule{
		ID:         b.ID,
		PositionID: b.PositionID,
		Kind:       b.Kind,
		Threshold:  b.Threshold,
		Fired:      b.Fired,
		CreatedAt:  b.CreatedAt,
	}
}
