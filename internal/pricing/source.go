// Package pricing defines the price source boundary of the engine: a Source
// that supplies point-in-time quotes and historical daily closes, plus a
// TTL cache that sits in front of it.
package pricing

import (
	"context"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// Source supplies quotes and historical closes for a symbol.
// Implementations map transport failures onto the apperrors taxonomy:
// ErrSymbolNotFound, ErrRateLimited, ErrQuoteTimeout, ErrQuoteUnavailable.
type Source interface {
	// GetQuote returns the most recent price sample for the symbol.
	// A quote taken outside regular trading hours is returned with
	// Stale = true, not as an error.
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)

	// GetHistory returns daily closes for the symbol covering the period
	// ending now, ordered oldest first.
	GetHistory(ctx context.Context, symbol string, period time.Duration) ([]model.PricePoint, error)
}
