// Package nlu talks to the intent classification service.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"laundry-concierge/config"
)

// Result is the outcome of one intent detection call.
type Result struct {
	Intent          string
	FulfillmentText string
	Parameters      map[string]any
}

// DateParameter extracts the classifier-supplied date parameter, if any.
// Absent or unparseable values yield nil; the caller treats that the same
// as the customer naming no date.
func (r *Result) DateParameter() *time.Time {
	raw, ok := r.Parameters["date"].(string)
	if !ok || raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Classifier detects the intent of one inbound message within a session.
type Classifier interface {
	DetectIntent(ctx context.Context, sessionKey, text string) (*Result, error)
}

// HTTPClassifier is a Classifier backed by the NLU service's REST API.
type HTTPClassifier struct {
	cfg    config.NLUConfig
	client *http.Client
}

// NewHTTPClassifier creates a classifier client from the NLU configuration.
func NewHTTPClassifier(cfg config.NLUConfig) *HTTPClassifier {
	return &HTTPClassifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type detectIntentRequest struct {
	QueryInput struct {
		Text struct {
			Text         string `json:"text"`
			LanguageCode string `json:"languageCode"`
		} `json:"text"`
	} `json:"queryInput"`
}

type detectIntentResponse struct {
	QueryResult struct {
		Intent struct {
			DisplayName string `json:"displayName"`
		} `json:"intent"`
		FulfillmentText string         `json:"fulfillmentText"`
		Parameters      map[string]any `json:"parameters"`
	} `json:"queryResult"`
}

// DetectIntent sends the message to the NLU service. The session is keyed
// by the caller, typically the sender's phone number.
func (c *HTTPClassifier) DetectIntent(ctx context.Context, sessionKey, text string) (*Result, error) {
	var reqBody detectIntentRequest
	reqBody.QueryInput.Text.Text = text
	reqBody.QueryInput.Text.LanguageCode = c.cfg.LanguageCode

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detect-intent request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sessions/%s:detectIntent", c.cfg.Endpoint, url.PathEscape(sessionKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect-intent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detect-intent returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read detect-intent response: %w", err)
	}

	var apiResp detectIntentResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal detect-intent response: %w", err)
	}

	return &Result{
		Intent:          apiResp.QueryResult.Intent.DisplayName,
		FulfillmentText: apiResp.QueryResult.FulfillmentText,
		Parameters:      apiResp.QueryResult.Parameters,
	}, nil
}
