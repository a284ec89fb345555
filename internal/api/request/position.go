package request

// CreatePositionRequest represents the request body for recording a holding.
// AcquiredAt is optional and defaults to the current date.
type CreatePositionRequest struct {
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	CostBasis  float64 `json:"costBasis"`
	AcquiredAt string  `json:"acquiredAt,omitempty"`
}
