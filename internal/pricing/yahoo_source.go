package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/yahoo"
)

// YahooSource adapts the Yahoo Finance client to the Source interface.
// Each call is bounded by the configured timeout on top of whatever deadline
// the caller's context already carries.
type YahooSource struct {
	client  *yahoo.FinanceClient
	timeout time.Duration
}

// NewYahooSource creates a YahooSource with the given per-call timeout.
func NewYahooSource(client *yahoo.FinanceClient, timeout time.Duration) *YahooSource {
	return &YahooSource{
		client:  client,
		timeout: timeout,
	}
}

// GetQuote fetches the latest price for the symbol from the 5-day chart.
// The quote is marked stale when Yahoo reports the market as anything other
// than a regular trading session.
func (s *YahooSource) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return model.Quote{}, mapSourceError(symbol, err)
	}

	chart, err := s.client.ParseChart(resp)
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %s: %s", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	return model.Quote{
		Symbol:    symbol,
		Price:     chart.LastPrice,
		Timestamp: chart.LastTime,
		Stale:     chart.MarketState != "REGULAR",
	}, nil
}

// GetHistory fetches daily closes covering the period ending now.
func (s *YahooSource) GetHistory(ctx context.Context, symbol string, period time.Duration) ([]model.PricePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	end := time.Now().UTC()
	start := end.Add(-period)

	resp, err := s.client.QueryYahooSymbolByDateRange(ctx, symbol, start, end)
	if err != nil {
		return nil, mapSourceError(symbol, err)
	}

	chart, err := s.client.ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	points := make([]model.PricePoint, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		// Yahoo occasionally pads the series with zero-close placeholders.
		if ind.PriceClose <= 0 {
			continue
		}
		points = append(points, model.PricePoint{
			Date:  ind.Date,
			Close: ind.PriceClose,
		})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrQuoteUnavailable, symbol)
	}

	return points, nil
}

// mapSourceError translates transport-level failures into the apperrors
// taxonomy so the engine can decide what to skip and what to surface.
func mapSourceError(symbol string, err error) error {
	var statusErr *yahoo.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", apperrors.ErrRateLimited, symbol)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", apperrors.ErrQuoteTimeout, symbol)
	}

	return fmt.Errorf("%w: %s: %s", apperrors.ErrQuoteUnavailable, symbol, err)
}
