// Package paging sends outbound SMS notifications to a human agent.
package paging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"laundry-concierge/config"
)

// Pager delivers a message to the on-call agent. A non-nil error means the
// page did not go out; callers decide whether that reaches the customer.
type Pager interface {
	Page(ctx context.Context, message string) error
}

// TwilioPager sends agent pages as SMS through the Twilio REST API.
type TwilioPager struct {
	cfg    config.TwilioConfig
	client *http.Client
}

// NewTwilioPager creates a pager from the Twilio configuration.
func NewTwilioPager(cfg config.TwilioConfig) *TwilioPager {
	return &TwilioPager{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Page posts the message to the Twilio Messages endpoint, from the business
// number to the agent number.
func (p *TwilioPager) Page(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("Body", message)
	form.Set("From", p.cfg.FromNumber)
	form.Set("To", p.cfg.AgentNumber)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.cfg.BaseURL, p.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.AccountSID, p.cfg.AuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("page request returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
