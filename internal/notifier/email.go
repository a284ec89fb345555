package notifier

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailNotifier delivers messages over SMTP.
type EmailNotifier struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewEmailNotifier creates an EmailNotifier for the given SMTP server.
// Username and password may be empty for unauthenticated relays.
func NewEmailNotifier(host, port, from, username, password string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

// Send delivers the message as a plain-text email.
func (n *EmailNotifier) Send(_ context.Context, recipient, subject, message string) error {
	if n.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, recipient, subject, message,
	)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	if err := smtp.SendMail(addr, auth, n.from, []string{recipient}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
