package request

// UpdateSettingsRequest represents the request body for updating user
// settings. Only provided fields are changed.
type UpdateSettingsRequest struct {
	RecipientEmail *string `json:"recipientEmail,omitempty"`
	WebhookURL     *string `json:"webhookUrl,omitempty"`
	SMTPPassword   *string `json:"smtpPassword,omitempty"`
}
