package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
)

// MockPriceSource is a mock implementation of pricing.Source for testing.
// It returns predefined quotes and history per symbol instead of calling
// the real price feed, and is safe for the engine's concurrent fan-out.
type MockPriceSource struct {
	mu sync.Mutex

	// Quotes maps symbols to the quote returned by GetQuote.
	Quotes map[string]model.Quote
	// QuoteErrors maps symbols to the error returned by GetQuote.
	QuoteErrors map[string]error
	// History maps symbols to the series returned by GetHistory.
	History map[string][]model.PricePoint
	// HistoryErrors maps symbols to the error returned by GetHistory.
	HistoryErrors map[string]error

	// QuoteCalls counts GetQuote invocations across all symbols.
	QuoteCalls int
}

// NewMockPriceSource creates an empty mock price source.
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		Quotes:        make(map[string]model.Quote),
		QuoteErrors:   make(map[string]error),
		History:       make(map[string][]model.PricePoint),
		HistoryErrors: make(map[string]error),
	}
}

// WithQuote configures the quote returned for a symbol.
func (m *MockPriceSource) WithQuote(symbol string, price float64) *MockPriceSource {
	m.Quotes[symbol] = model.Quote{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC),
	}
	return m
}

// WithStaleQuote configures a stale quote for a symbol.
func (m *MockPriceSource) WithStaleQuote(symbol string, price float64) *MockPriceSource {
	m.Quotes[symbol] = model.Quote{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC),
		Stale:     true,
	}
	return m
}

// WithQuoteError configures GetQuote to fail for a symbol.
func (m *MockPriceSource) WithQuoteError(symbol string, err error) *MockPriceSource {
	m.QuoteErrors[symbol] = err
	return m
}

// WithHistory configures the history returned for a symbol.
func (m *MockPriceSource) WithHistory(symbol string, points []model.PricePoint) *MockPriceSource {
	m.History[symbol] = points
	return m
}

// GetQuote returns the configured quote or error for the symbol.
func (m *MockPriceSource) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCalls++

	if err, ok := m.QuoteErrors[symbol]; ok {
		return model.Quote{}, err
	}
	if quote, ok := m.Quotes[symbol]; ok {
		return quote, nil
	}
	return model.Quote{}, fmt.Errorf("mock has no quote for %s", symbol)
}

// GetHistory returns the configured history or error for the symbol.
func (m *MockPriceSource) GetHistory(_ context.Context, symbol string, _ time.Duration) ([]model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.HistoryErrors[symbol]; ok {
		return nil, err
	}
	if history, ok := m.History[symbol]; ok {
		return history, nil
	}
	return nil, fmt.Errorf("mock has no history for %s", symbol)
}

// MakeHistory generates n consecutive business-day closes starting at start,
// with the close advancing by step each day. Useful for forecast tests that
// need a known linear trend.
func MakeHistory(start time.Time, startClose, step float64, n int) []model.PricePoint {
	points := make([]model.PricePoint, 0, n)
	date := start

	for i := 0; i < n; i++ {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		points = append(points, model.PricePoint{
			Date:  date,
			Close: startClose + step*float64(i),
		})
		date = date.AddDate(0, 0, 1)
	}

	return points
}

// RecordingNotifier captures sent notifications for assertions.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []RecordedNotification
}

// RecordedNotification is one captured delivery.
type RecordedNotification struct {
	Recipient string
	Subject   string
	Message   string
}

// Send records the notification.
func (n *RecordingNotifier) Send(_ context.Context, recipient, subject, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Sent = append(n.Sent, RecordedNotification{
		Recipient: recipient,
		Subject:   subject,
		Message:   message,
	})
	return nil
}

// Count returns the number of recorded notifications.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}
