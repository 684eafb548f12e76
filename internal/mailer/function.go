package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FunctionMailer posts emails to a hosted "send-email" function.
type FunctionMailer struct {
	url    string
	apiKey string
	client *http.Client
}

// NewFunctionMailer builds a mailer whose calls are bounded by timeout.
func NewFunctionMailer(url, apiKey string, timeout time.Duration) *FunctionMailer {
	return &FunctionMailer{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (m *FunctionMailer) SendEmail(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("FunctionMailer.SendEmail: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("FunctionMailer.SendEmail: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("FunctionMailer.SendEmail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("FunctionMailer.SendEmail: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
