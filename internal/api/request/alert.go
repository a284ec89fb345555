package request

// CreateAlertRuleRequest represents the request body for creating an alert rule.
// Threshold is a price for price_above rules and a percentage magnitude for
// profit_pct_above and drop_pct_above rules.
type CreateAlertRuleRequest struct {
	PositionID string  `json:"positionId"`
	Kind       string  `json:"kind"`
	Threshold  float64 `json:"threshold"`
}
