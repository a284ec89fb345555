package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
)

// ForecastHandler handles forecast HTTP requests
type ForecastHandler struct {
	forecastService *service.ForecastService
	defaultHorizon  int
}

// NewForecastHandler creates a new ForecastHandler
func NewForecastHandler(forecastService *service.ForecastService, defaultHorizon int) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
		defaultHorizon:  defaultHorizon,
	}
}

// ForecastPointResponse represents one projected trading day
type ForecastPointResponse struct {
	Date     string  `json:"date"`
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// ForecastResponse represents the full projection for a symbol
type ForecastResponse struct {
	Symbol      string                  `json:"symbol"`
	HorizonDays int                     `json:"horizonDays"`
	Points      []ForecastPointResponse `json:"points"`
}

// Forecast projects a symbol's price over the requested horizon.
// Insufficient history is surfaced as 422 with an explicit message rather
// than a server error, so the dashboard can show "not enough data".
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required", "")
		return
	}

	horizon := h.defaultHorizon
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer", "")
			return
		}
		horizon = parsed
	}

	points, err := h.forecastService.ForecastSymbol(r.Context(), symbol, horizon)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientHistory):
			respondError(w, http.StatusUnprocessableEntity, "Not enough price history to forecast", err.Error())
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			respondError(w, http.StatusNotFound, "Symbol not found", err.Error())
		case errors.Is(err, apperrors.ErrRateLimited), errors.Is(err, apperrors.ErrQuoteTimeout):
			respondError(w, http.StatusServiceUnavailable, "Price source unavailable", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to compute forecast", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, toForecastResponse(symbol, horizon, points))
}

func toForecastResponse(symbol string, horizon int, points []model.ForecastPoint) ForecastResponse {
	response := ForecastResponse{
		Symbol:      symbol,
		HorizonDays: horizon,
		Points:      make([]ForecastPointResponse, len(points)),
	}

	for i, p := range points {
		response.Points[i] = ForecastPointResponse{
			Date:     p.Date.UTC().Format(time.DateOnly),
			Estimate: p.Estimate,
			Lower:    p.Lower,
			Upper:    p.Upper,
		}
	}

	return response
}
