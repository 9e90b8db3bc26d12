package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookInvoker_Invoke(t *testing.T) {
	tests := []struct {
		name       string
		serverFunc func(w http.ResponseWriter, r *http.Request)
		wantStatus int
		wantBody   any
	}{
		{
			name: "JSON response is parsed",
			serverFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "ok", "received": true}`))
			},
			wantStatus: 200,
			wantBody:   map[string]any{"status": "ok", "received": true},
		},
		{
			name: "non-JSON body degrades to raw text",
			serverFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream exploded"))
			},
			wantStatus: 502,
			wantBody:   "upstream exploded",
		},
		{
			name: "empty body yields nil",
			serverFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: 200,
			wantBody:   nil,
		},
		{
			name: "non-200 status is reported, not interpreted",
			serverFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"error": "symbols must not be empty"}`))
			},
			wantStatus: 422,
			wantBody:   map[string]any{"error": "symbols must not be empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverFunc))
			defer server.Close()

			invoker := NewWebhookInvoker(server.URL)
			outcome := invoker.Invoke(context.Background(), "thub-test", map[string]any{"test": "simple"}, 5*time.Second)

			assert.False(t, outcome.TransportFailed())
			assert.Equal(t, tt.wantStatus, outcome.StatusCode)
			assert.Equal(t, tt.wantBody, outcome.Body)
		})
	}
}

func TestWebhookInvoker_SendsJSONPost(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	invoker := NewWebhookInvoker(server.URL + "/")
	payload := map[string]any{"action": "market_scan", "filters": map[string]any{"limit": 10}}
	outcome := invoker.Invoke(context.Background(), "thub-test", payload, 5*time.Second)

	require.False(t, outcome.TransportFailed())
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/thub-test", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "market_scan", gotPayload["action"])
	assert.Equal(t, map[string]any{"limit": float64(10)}, gotPayload["filters"])
}

func TestWebhookInvoker_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	invoker := NewWebhookInvoker(server.URL)
	outcome := invoker.Invoke(context.Background(), "thub-test", map[string]any{}, 50*time.Millisecond)

	assert.True(t, outcome.TransportFailed())
	assert.Equal(t, 0, outcome.StatusCode)
	assert.Contains(t, outcome.TransportError, "timed out after 50ms")
}

func TestWebhookInvoker_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	invoker := NewWebhookInvoker(url)
	outcome := invoker.Invoke(context.Background(), "thub-test", map[string]any{}, time.Second)

	assert.True(t, outcome.TransportFailed())
	assert.Equal(t, 0, outcome.StatusCode)
	assert.NotEmpty(t, outcome.TransportError)
}
