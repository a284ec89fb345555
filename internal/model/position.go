package model

import "time"

// Position represents a recorded holding from the database.
// Quantity and CostBasis are per-unit figures; both must be positive
// for the position to be valuated.
type Position struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Quantity   float64   `json:"quantity"`
	CostBasis  float64   `json:"costBasis"` // Purchase price per unit
	AcquiredAt time.Time `json:"acquiredAt"`
}

// InvestedValue returns the total amount paid for the position.
func (p Position) InvestedValue() float64 {
	return p.Quantity * p.CostBasis
}
