package service

import (
	"fmt"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// ValuationService converts positions and quotes into profit/loss figures.
// Valuate is a pure function: no I/O, no hidden state, deterministic for a
// given (position, quote) pair.
type ValuationService struct{}

// NewValuationService creates a new ValuationService.
func NewValuationService() *ValuationService {
	return &ValuationService{}
}

// Valuate computes the valuation of a position against a quote.
//
// The calculation:
//   - Market value: quote price * quantity
//   - Invested value: cost basis * quantity
//   - Absolute P&L: market value - invested value
//   - P&L percentage: absolute P&L / invested value * 100
//
// Rules:
//   - A position with non-positive quantity or cost basis fails with
//     ErrInvalidPosition; it cannot have a meaningful P&L percentage.
//   - A stale quote (market closed, cached value) is still valuated; the
//     staleness flag is carried onto the Valuation so callers can label the
//     figure "as of last close" instead of live.
//   - If the invested value works out to exactly zero the percentage is
//     reported through the PnLPctValid sentinel, never divided by zero.
//
// Doubling the quantity doubles market value, invested value and absolute
// P&L while leaving the percentage unchanged.
func (s *ValuationService) Valuate(position model.Position, quote model.Quote) (model.Valuation, error) {
	if position.Quantity <= 0 {
		return model.Valuation{}, fmt.Errorf("%w: quantity must be positive, got %v", apperrors.ErrInvalidPosition, position.Quantity)
	}
	if position.CostBasis <= 0 {
		return model.Valuation{}, fmt.Errorf("%w: cost basis must be positive, got %v", apperrors.ErrInvalidPosition, position.CostBasis)
	}

	marketValue := quote.Price * position.Quantity
	investedValue := position.CostBasis * position.Quantity
	pnl := marketValue - investedValue

	v := model.Valuation{
		PositionID:    position.ID,
		Symbol:        position.Symbol,
		CurrentPrice:  quote.Price,
		MarketValue:   marketValue,
		InvestedValue: investedValue,
		PnL:           pnl,
		Stale:         quote.Stale,
		AsOf:          quote.Timestamp,
	}

	if investedValue != 0 {
		v.PnLPct = pnl / investedValue * 100
		v.PnLPctValid = true
	}

	return v, nil
}
