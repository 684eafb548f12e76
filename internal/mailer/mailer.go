// Package mailer sends transactional email through an external capability.
// Delivery is not guaranteed; a nil error only means the message was accepted.
package mailer

import (
	"context"
	"strings"
)

// Email is a single transactional message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Link    string `json:"link,omitempty"`
}

// Mailer submits an email for delivery.
type Mailer interface {
	SendEmail(ctx context.Context, email Email) error
}

// PlainText renders the message body used by transports without templates.
func (e Email) PlainText(baseURL string) string {
	var b strings.Builder
	if e.Title != "" {
		b.WriteString(e.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(e.Body)
	if e.Link != "" {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(baseURL, "/"))
		b.WriteString(e.Link)
	}
	b.WriteString("\n")
	return b.String()
}
