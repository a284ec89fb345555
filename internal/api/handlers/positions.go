package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
	"github.com/stockguardian/stock-guardian-backend/internal/validation"
)

// PositionHandler handles position-related HTTP requests
type PositionHandler struct {
	holdingsService *service.HoldingsService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(holdingsService *service.HoldingsService) *PositionHandler {
	return &PositionHandler{
		holdingsService: holdingsService,
	}
}

// PositionResponse represents a position in API responses
type PositionResponse struct {
	ID         string  `json:"id"`
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	CostBasis  float64 `json:"costBasis"`
	AcquiredAt string  `json:"acquiredAt"`
}

func toPositionResponse(p model.Position) PositionResponse {
	return PositionResponse{
		ID:         p.ID,
		Symbol:     p.Symbol,
		Quantity:   p.Quantity,
		CostBasis:  p.CostBasis,
		AcquiredAt: p.AcquiredAt.UTC().Format("2006-01-02"),
	}
}

// Positions returns all recorded holdings
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.holdingsService.ListPositions()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve positions", err.Error())
		return
	}

	response := make([]PositionResponse, len(positions))
	for i, p := range positions {
		response[i] = toPositionResponse(p)
	}

	respondJSON(w, http.StatusOK, response)
}

// CreatePosition records a new holding
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePosition(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	var acquiredAt time.Time
	if req.AcquiredAt != "" {
		parsed, err := time.Parse("2006-01-02", req.AcquiredAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid acquiredAt date, want YYYY-MM-DD", err.Error())
			return
		}
		acquiredAt = parsed
	}

	position, err := h.holdingsService.AddPosition(req.Symbol, req.Quantity, req.CostBasis, acquiredAt)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create position", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, toPositionResponse(position))
}

// DeletePosition removes a holding and its alert rules
func (h *PositionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	positionID := chi.URLParam(r, "uuid")

	if err := h.holdingsService.RemovePosition(positionID); err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			respondError(w, http.StatusNotFound, "Position not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete position", err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
