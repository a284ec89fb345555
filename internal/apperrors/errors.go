package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPositionNotFound indicates that a position with the given ID does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrRuleNotFound indicates that an alert rule with the given ID does not exist.
	ErrRuleNotFound = errors.New("alert rule not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSettingNotFound indicates that a setting with the given key does not exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidPosition indicates that a position has a non-positive quantity
	// or cost basis and cannot be valuated.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidAlertKind indicates that an alert rule kind is not one of the
	// supported values.
	ErrInvalidAlertKind = errors.New("invalid alert kind")

	// ErrInvalidThreshold indicates that an alert rule threshold is not a
	// positive number.
	ErrInvalidThreshold = errors.New("threshold must be positive")

	// ErrDuplicateRule indicates that a rule with the same position, kind and
	// threshold already exists. Duplicate rules collapse to the existing one.
	ErrDuplicateRule = errors.New("duplicate alert rule")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidSymbol indicates that a required symbol parameter is empty.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidHorizon indicates that a forecast horizon is not a positive
	// number of days.
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
)

// Price source errors represent per-symbol failures when fetching quotes or
// history. A failing symbol is skipped for the cycle; the cycle continues.
var (
	// ErrRateLimited indicates that the price source rejected the request due
	// to rate limiting.
	ErrRateLimited = errors.New("price source rate limited")

	// ErrQuoteTimeout indicates that a quote request did not complete within
	// the configured timeout.
	ErrQuoteTimeout = errors.New("quote request timed out")

	// ErrQuoteUnavailable indicates that the price source returned no usable
	// price data for the symbol.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Engine errors represent failures inside the valuation and forecasting
// pipeline that degrade a single result rather than the whole cycle.
var (
	// ErrInsufficientHistory indicates that too few historical samples are
	// available to produce a statistically meaningful forecast.
	ErrInsufficientHistory = errors.New("insufficient price history for forecast")

	// ErrDeliveryFailed indicates that a notification could not be delivered.
	// The alert rule remains fired regardless; re-arming it is a user action.
	ErrDeliveryFailed = errors.New("notification delivery failed")

	// ErrUnknownChannel indicates that a notification channel name is not
	// registered with the dispatcher.
	ErrUnknownChannel = errors.New("unknown notification channel")
)
