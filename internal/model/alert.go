package model

import "time"

// AlertKind identifies the condition an alert rule evaluates.
type AlertKind string

// Supported alert rule kinds.
const (
	// PriceAbove triggers when the current price reaches the threshold.
	PriceAbove AlertKind = "price_above"

	// ProfitPctAbove triggers when the P&L percentage reaches the threshold.
	ProfitPctAbove AlertKind = "profit_pct_above"

	// DropPctAbove triggers when the P&L percentage falls to or below the
	// negated threshold. The threshold is given as a positive magnitude.
	DropPctAbove AlertKind = "drop_pct_above"
)

// ValidAlertKind reports whether the given kind is one of the supported values.
func ValidAlertKind(kind AlertKind) bool {
	switch kind {
	case PriceAbove, ProfitPctAbove, DropPctAbove:
		return true
	}
	return false
}

// AlertRule represents a user-defined threshold condition on a position.
// A rule with Fired = true must not trigger a second notification until it
// is explicitly reset or deleted.
type AlertRule struct {
	ID         string    `json:"id"`
	PositionID string    `json:"positionId"`
	Kind       AlertKind `json:"kind"`
	Threshold  float64   `json:"threshold"`
	Fired      bool      `json:"fired"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TriggeredAlert represents a single rule crossing detected during an
// evaluation pass, ready to be handed to the notifier.
type TriggeredAlert struct {
	PositionID    string    `json:"positionId"`
	RuleID        string    `json:"ruleId"`
	Symbol        string    `json:"symbol"`
	Kind          AlertKind `json:"kind"`
	Threshold     float64   `json:"threshold"`
	ObservedValue float64   `json:"observedValue"`
	Message       string    `json:"message"`
}
