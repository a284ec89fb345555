package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/pricing"
)

// BandPct is the fixed uncertainty band applied around each point estimate,
// as a fraction of the estimate.
const BandPct = 0.10

// historyPeriod is how far back ForecastSymbol requests daily closes.
const historyPeriod = 365 * 24 * time.Hour

// ForecastService produces short-horizon price projections from daily close
// history. The method is a deliberately simple, reproducible baseline: an
// ordinary-least-squares line through (time index, close) projected forward
// over business days, with a fixed percentage band. It makes no claim of
// predictive accuracy and injects no randomness.
type ForecastService struct {
	source     pricing.Source
	minHistory int
}

// NewForecastService creates a ForecastService requiring at least minHistory
// samples before it will produce a projection. source may be nil when only
// the pure Forecast method is used.
func NewForecastService(source pricing.Source, minHistory int) *ForecastService {
	return &ForecastService{
		source:     source,
		minHistory: minHistory,
	}
}

// ForecastSymbol fetches a year of daily closes for the symbol and projects
// horizonDays business days forward.
func (s *ForecastService) ForecastSymbol(ctx context.Context, symbol string, horizonDays int) ([]model.ForecastPoint, error) {
	history, err := s.source.GetHistory(ctx, symbol, historyPeriod)
	if err != nil {
		return nil, err
	}

	return s.Forecast(history, horizonDays)
}

// Forecast projects horizonDays business days past the last historical
// sample.
//
// Fails with ErrInsufficientHistory when fewer than the minimum number of
// samples are available; a short-window linear extrapolation below that is
// statistically meaningless. Fails with ErrInvalidHorizon for a non-positive
// horizon.
//
// Output dates are business days only, contiguous, starting the day after
// the last historical sample. For every point: Lower <= Estimate <= Upper.
func (s *ForecastService) Forecast(history []model.PricePoint, horizonDays int) ([]model.ForecastPoint, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrInvalidHorizon, horizonDays)
	}
	if len(history) < s.minHistory {
		return nil, fmt.Errorf("%w: have %d samples, need %d", apperrors.ErrInsufficientHistory, len(history), s.minHistory)
	}

	slope, intercept := fitLine(history)

	points := make([]model.ForecastPoint, 0, horizonDays)
	date := history[len(history)-1].Date
	n := len(history)

	for i := 0; i < horizonDays; i++ {
		date = nextBusinessDay(date)
		estimate := intercept + slope*float64(n+i)

		lower := estimate * (1 - BandPct)
		upper := estimate * (1 + BandPct)
		if estimate < 0 {
			// A negative extrapolation flips the band; keep the invariant.
			lower, upper = upper, lower
		}

		points = append(points, model.ForecastPoint{
			Date:     date,
			Estimate: estimate,
			Lower:    lower,
			Upper:    upper,
		})
	}

	return points, nil
}

// MinHistory returns the minimum number of samples required for a forecast.
func (s *ForecastService) MinHistory() int {
	return s.minHistory
}

// fitLine computes the ordinary-least-squares line close = intercept +
// slope*index over the history, indices 0..n-1 in sample order.
func fitLine(history []model.PricePoint) (slope, intercept float64) {
	n := float64(len(history))

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range history {
		x := float64(i)
		sumX += x
		sumY += p.Close
		sumXY += x * p.Close
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// Single distinct index; fall back to a flat line at the mean.
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// nextBusinessDay returns the first Monday-Friday date after d.
func nextBusinessDay(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
