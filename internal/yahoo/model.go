package yahoo

import "time"

// Response represents the raw JSON response structure from Yahoo Finance API.
// This type maps directly to the Yahoo Finance chart API response format,
// containing nested structures for metadata, timestamps, and price indicators.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, market state)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays (open, close, high, low, volume)
//   - Chart.Error: Optional error message from Yahoo API
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				MarketState        string  `json:"marketState"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// PriceChart represents a parsed and structured price chart from Yahoo Finance.
// This is the application's internal representation after parsing the raw Response.
//
// MarketState carries Yahoo's trading session indicator ("REGULAR" during
// market hours; "PRE", "POST" or "CLOSED" otherwise) and is used to flag
// quotes as stale when taken outside regular trading.
type PriceChart struct {
	Currency     string       `json:"currency"`
	Symbol       string       `json:"symbol"`
	ExchangeName string       `json:"exchangeName"`
	MarketState  string       `json:"marketState"`
	LastPrice    float64      `json:"lastPrice"`
	LastTime     time.Time    `json:"lastTime"`
	Indicators   []Indicators `json:"indicators"`
}

// Indicators represents a single day's price data for a financial instrument.
// Each Indicators instance corresponds to one trading day and contains the
// standard OHLCV (Open, High, Low, Close, Volume) data.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}
