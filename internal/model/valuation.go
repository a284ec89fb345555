package model

import "time"

// Valuation represents derived profit/loss figures for one position given
// a quote. It is recomputed on every evaluation cycle and never mutated
// in place.
//
// PnLPctValid is false when the invested value is zero, in which case the
// percentage is undefined and PnLPct must be ignored. This is the explicit
// sentinel for what would otherwise be a division by zero.
type Valuation struct {
	PositionID    string    `json:"positionId"`
	Symbol        string    `json:"symbol"`
	CurrentPrice  float64   `json:"currentPrice"`
	MarketValue   float64   `json:"marketValue"`   // CurrentPrice * Quantity
	InvestedValue float64   `json:"investedValue"` // CostBasis * Quantity
	PnL           float64   `json:"pnl"`           // MarketValue - InvestedValue
	PnLPct        float64   `json:"pnlPct"`
	PnLPctValid   bool      `json:"pnlPctValid"`
	Stale         bool      `json:"stale"` // Carried forward from the quote
	AsOf          time.Time `json:"asOf"`
}
