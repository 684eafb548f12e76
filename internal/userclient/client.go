// Package userclient reads user profiles from the user service.
package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func New(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// GetUser calls GET {base}/api/users/{id}. A 404 maps to ErrUserNotFound.
func (c *Client) GetUser(ctx context.Context, userID string) (*model.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/api/users/%s", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("userclient.GetUser: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userclient.GetUser: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("user %s: %w", userID, errs.ErrUserNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithFields(logrus.Fields{
			"user_id": userID,
			"status":  resp.StatusCode,
		}).Warn("unexpected user service response")
		return nil, fmt.Errorf("userclient.GetUser: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p model.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("userclient.GetUser: decode: %w", err)
	}
	if p.ID == "" {
		p.ID = userID
	}
	return &p, nil
}
