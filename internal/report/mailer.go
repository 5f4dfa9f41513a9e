// Package report sends the weekly budget report by email through the Gmail
// API. Delivery is fire-and-forget from the pipeline's perspective: a send
// failure is logged in the run status and nothing downstream depends on it.
package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	goption "google.golang.org/api/option"
)

// Mailer sends report emails as the configured sender.
type Mailer struct {
	svc    *gmail.Service
	sender string
}

// NewMailer creates a Gmail-backed mailer. Credentials come from ADC unless
// overridden via opts.
func NewMailer(ctx context.Context, sender string, opts ...goption.ClientOption) (*Mailer, error) {
	if strings.TrimSpace(sender) == "" {
		return nil, errors.New("report: missing sender address")
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("report: creating gmail service: %w", err)
	}
	return &Mailer{svc: svc, sender: sender}, nil
}

// Send delivers one plain-text email to the recipients.
func (m *Mailer) Send(ctx context.Context, subject, content string, recipients []string) error {
	if len(recipients) == 0 {
		return errors.New("report: no recipients")
	}

	raw := buildMessage(m.sender, recipients, subject, content)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := m.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("report: sending mail: %w", err)
	}
	return nil
}

// Ping verifies the Gmail credentials work.
func (m *Mailer) Ping(ctx context.Context) error {
	if _, err := m.svc.Users.GetProfile("me").Context(ctx).Do(); err != nil {
		return fmt.Errorf("report: ping: %w", err)
	}
	return nil
}

// buildMessage assembles an RFC 822 message with CRLF line endings.
func buildMessage(from string, to []string, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
