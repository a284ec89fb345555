package model

// Setting represents a single key/value configuration row.
// Secret values (SMTP credentials) are stored encrypted.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Well-known setting keys.
const (
	SettingRecipientEmail = "recipient_email"
	SettingSMTPPassword   = "smtp_password"
	SettingWebhookURL     = "webhook_url"
)
