package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
	"github.com/stockguardian/stock-guardian-backend/internal/validation"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	dispatcher      *notifier.Dispatcher
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService, dispatcher *notifier.Dispatcher) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		dispatcher:      dispatcher,
	}
}

// SettingsResponse represents the non-secret user settings plus the
// notification channels currently registered. The SMTP password is
// write-only and never echoed back.
type SettingsResponse struct {
	RecipientEmail string   `json:"recipientEmail"`
	WebhookURL     string   `json:"webhookUrl"`
	Channels       []string `json:"channels"`
}

// Settings returns the current settings
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	email, err := h.settingsService.RecipientEmail()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve settings", err.Error())
		return
	}

	webhookURL, err := h.settingsService.WebhookURL()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve settings", err.Error())
		return
	}

	var channels []string
	if h.dispatcher != nil {
		channels = h.dispatcher.Channels()
	}

	respondJSON(w, http.StatusOK, SettingsResponse{
		RecipientEmail: email,
		WebhookURL:     webhookURL,
		Channels:       channels,
	})
}

// UpdateSettings updates the provided settings fields
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if req.RecipientEmail != nil {
		if err := h.settingsService.SetRecipientEmail(*req.RecipientEmail); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to save recipient email", err.Error())
			return
		}
	}

	if req.WebhookURL != nil {
		if err := h.settingsService.SetWebhookURL(*req.WebhookURL); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to save webhook URL", err.Error())
			return
		}
	}

	if req.SMTPPassword != nil {
		if err := h.settingsService.SetSMTPPassword(*req.SMTPPassword); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to save SMTP password", err.Error())
			return
		}
	}

	respondJSON(w, http.StatusNoContent, nil)
}
