package model

import "time"

// Quote represents a single price sample for a symbol.
// Stale marks quotes taken while the market is closed or served from a
// cached/fallback value; a stale quote is still usable for valuation but
// should be labelled "as of last close" rather than live.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Stale     bool      `json:"stale"`
}

// PricePoint represents one historical daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
