package validation

import (
	"strings"

	"github.com/stockguardian/stock-guardian-backend/internal/api/request"
)

// ValidateUpdateSettings checks a settings update request. Only provided
// fields are validated.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	if req.RecipientEmail != nil {
		email := strings.TrimSpace(*req.RecipientEmail)
		if email == "" {
			errors["recipientEmail"] = "recipient email cannot be empty"
		} else if !strings.Contains(email, "@") {
			errors["recipientEmail"] = "recipient email must be a valid address"
		}
	}

	if req.WebhookURL != nil {
		url := strings.TrimSpace(*req.WebhookURL)
		if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			errors["webhookUrl"] = "webhook URL must start with http:// or https://"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
