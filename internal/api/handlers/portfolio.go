package handlers

import (
	"net/http"

	"github.com/stockguardian/stock-guardian-backend/internal/service"
)

// PortfolioHandler handles portfolio valuation HTTP requests
type PortfolioHandler struct {
	engineService *service.EngineService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(engineService *service.EngineService) *PortfolioHandler {
	return &PortfolioHandler{
		engineService: engineService,
	}
}

// Summary valuates all positions against current quotes and returns
// per-position figures plus portfolio totals. Rendering a summary never
// evaluates alert rules, so a page load cannot consume a rule's single
// fire.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.engineService.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to valuate portfolio", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}
