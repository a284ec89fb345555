package model

import "time"

// ForecastPoint represents one projected trading day: a point estimate
// with a lower/upper uncertainty band around it. Invariant: Lower <=
// Estimate <= Upper.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Estimate float64   `json:"estimate"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}
