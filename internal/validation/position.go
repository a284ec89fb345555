package validation

import (
	"strings"

	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
)

// ValidateCreatePosition checks a position creation request. Bad input data
// is rejected here, at entry time, so the engine never sees a position it
// cannot valuate.
func ValidateCreatePosition(req request.CreatePositionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if len(req.Symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.CostBasis <= 0 {
		errors["costBasis"] = "cost basis must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
