package notifier

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier posts messages as JSON to a configured URL. This covers
// chat-style integrations (Slack-compatible webhooks, messaging relays)
// without the engine knowing the receiving side.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

// webhookPayload is the JSON body posted to the webhook endpoint.
type webhookPayload struct {
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
}

// NewWebhookNotifier creates a WebhookNotifier posting to url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		client: resty.New(),
		url:    url,
	}
}

// Send posts the message to the webhook URL.
func (n *WebhookNotifier) Send(ctx context.Context, recipient, subject, message string) error {
	if n.url == "" {
		return fmt.Errorf("webhook url not configured")
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{
			Recipient: recipient,
			Subject:   subject,
			Text:      message,
		}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	return nil
}
