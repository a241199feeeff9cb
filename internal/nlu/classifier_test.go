package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-concierge/config"
)

func TestHTTPClassifier_DetectIntent(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody detectIntentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := detectIntentResponse{}
		resp.QueryResult.Intent.DisplayName = "Reschedule"
		resp.QueryResult.FulfillmentText = "Sure, which day works?"
		resp.QueryResult.Parameters = map[string]any{"date": "2026-06-22T12:00:00Z"}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewHTTPClassifier(config.NLUConfig{
		Endpoint:       server.URL,
		Token:          "secret",
		LanguageCode:   "en-US",
		TimeoutSeconds: 5,
	})

	result, err := c.DetectIntent(context.Background(), "+15550001", "change my pickup to monday")
	require.NoError(t, err)

	assert.Equal(t, "/sessions/+15550001:detectIntent", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "change my pickup to monday", gotBody.QueryInput.Text.Text)
	assert.Equal(t, "en-US", gotBody.QueryInput.Text.LanguageCode)

	assert.Equal(t, "Reschedule", result.Intent)
	assert.Equal(t, "Sure, which day works?", result.FulfillmentText)

	date := result.DateParameter()
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2026, time.June, 22, 12, 0, 0, 0, time.UTC), date.UTC())
}

func TestHTTPClassifier_DetectIntentErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewHTTPClassifier(config.NLUConfig{Endpoint: server.URL, TimeoutSeconds: 5})

	_, err := c.DetectIntent(context.Background(), "+15550001", "hello")
	assert.Error(t, err)
}

func TestResult_DateParameter(t *testing.T) {
	testCases := []struct {
		name     string
		params   map[string]any
		expected *time.Time
	}{
		{name: "missing parameters", params: nil, expected: nil},
		{name: "missing date key", params: map[string]any{"other": "x"}, expected: nil},
		{name: "empty string", params: map[string]any{"date": ""}, expected: nil},
		{name: "not a string", params: map[string]any{"date": 42.0}, expected: nil},
		{name: "unparseable", params: map[string]any{"date": "next tuesday"}, expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Result{Parameters: tc.params}
			assert.Nil(t, r.DateParameter())
		})
	}

	t.Run("bare date", func(t *testing.T) {
		r := &Result{Parameters: map[string]any{"date": "2026-06-22"}}
		date := r.DateParameter()
		require.NotNil(t, date)
		assert.Equal(t, "2026-06-22", date.Format("2006-01-02"))
	})
}
