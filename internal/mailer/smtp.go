package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// SiteURL prefixes relative links in the message body.
	SiteURL string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host, port, username, password, from, siteURL string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		SiteURL:  siteURL,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) SendEmail(ctx context.Context, email Email) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	from := m.From
	if from == "" {
		from = m.Username
	}
	if from == "" {
		return fmt.Errorf("smtp from not configured")
	}

	var auth smtp.Auth
	if m.Username != "" || m.Password != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	msg := m.buildMessage(from, email)

	// net/smtp has no context support; give up waiting when ctx ends.
	done := make(chan error, 1)
	go func() {
		done <- m.send(addr, auth, from, []string{email.To}, msg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("SMTPMailer.SendEmail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("SMTPMailer.SendEmail: %w", ctx.Err())
	}
}

func (m *SMTPMailer) buildMessage(from string, email Email) []byte {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", email.To),
		fmt.Sprintf("Subject: %s", sanitizeHeader(email.Subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + email.PlainText(m.SiteURL))
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
