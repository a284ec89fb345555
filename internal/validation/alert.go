package validation

import (
	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// ValidateCreateAlertRule checks an alert rule creation request.
// The threshold is always a positive number; for drop rules it is the
// magnitude of the drop, the evaluator applies the sign.
func ValidateCreateAlertRule(req request.CreateAlertRuleRequest) error {
	errors := make(map[string]string)

	if req.PositionID == "" {
		errors["positionId"] = "position ID is required"
	} else if err := ValidateUUID(req.PositionID); err != nil {
		errors["positionId"] = "position ID must be a valid UUID"
	}

	if !model.ValidAlertKind(model.AlertKind(req.Kind)) {
		errors["kind"] = "kind must be one of price_above, profit_pct_above, drop_pct_above"
	}

	if req.Threshold <= 0 {
		errors["threshold"] = "threshold must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
