package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
	"github.com/stockguardian/stock-guardian-backend/internal/validation"
)

// AlertHandler handles alert rule HTTP requests
type AlertHandler struct {
	alertService  *service.AlertService
	engineService *service.EngineService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *service.AlertService, engineService *service.EngineService) *AlertHandler {
	return &AlertHandler{
		alertService:  alertService,
		engineService: engineService,
	}
}

// AlertRuleResponse represents an alert rule in API responses
type AlertRuleResponse struct {
	ID         string  `json:"id"`
	PositionID string  `json:"positionId"`
	Kind       string  `json:"kind"`
	Threshold  float64 `json:"threshold"`
	Fired      bool    `json:"fired"`
}

func toAlertRuleResponse(r model.AlertRule) AlertRuleResponse {
	return AlertRuleResponse{
		ID:         r.ID,
		PositionID: r.PositionID,
		Kind:       string(r.Kind),
		Threshold:  r.Threshold,
		Fired:      r.Fired,
	}
}

// Rules returns all alert rules
func (h *AlertHandler) Rules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.alertService.ListRules()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve alert rules", err.Error())
		return
	}

	response := make([]AlertRuleResponse, len(rules))
	for i, rule := range rules {
		response[i] = toAlertRuleResponse(rule)
	}

	respondJSON(w, http.StatusOK, response)
}

// CreateRule creates an alert rule. Creating an identical rule twice
// returns the existing rule with 200 rather than a second row.
func (h *AlertHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAlertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAlertRule(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	rule, err := h.alertService.CreateRule(req.PositionID, model.AlertKind(req.Kind), req.Threshold)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRule) {
			respondJSON(w, http.StatusOK, toAlertRuleResponse(rule))
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create alert rule", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, toAlertRuleResponse(rule))
}

// ResetRule re-arms a fired rule
func (h *AlertHandler) ResetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "uuid")

	if err := h.alertService.ResetRule(ruleID); err != nil {
		if errors.Is(err, apperrors.ErrRuleNotFound) {
			respondError(w, http.StatusNotFound, "Alert rule not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to reset alert rule", err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteRule removes an alert rule
func (h *AlertHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "uuid")

	if err := h.alertService.RemoveRule(ruleID); err != nil {
		if errors.Is(err, apperrors.ErrRuleNotFound) {
			respondError(w, http.StatusNotFound, "Alert rule not found", "")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete alert rule", err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Check runs a full evaluation cycle immediately and returns the report.
// This is the manual counterpart of the scheduled background check.
func (h *AlertHandler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.engineService.RunCycle(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to run alert check", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}
