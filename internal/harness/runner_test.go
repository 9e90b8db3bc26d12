package harness

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSuiteRunner wires a runner against the given server with no
// inter-scenario pause.
func newSuiteRunner(serverURL string) *Runner {
	reporter := NewConsoleReporter(io.Discard, false)
	return NewRunner(NewWebhookInvoker(serverURL), reporter, serverURL, 0)
}

// batchAwareHandler answers 200 {} everywhere except the batch trigger,
// where an empty symbol list is rejected with 422.
func batchAwareHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/batch-analysis-trigger" {
		var payload struct {
			Symbols []string `json:"symbols"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		if len(payload.Symbols) == 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error": "symbols must not be empty"}`))
			return
		}
	}
	w.Write([]byte(`{}`))
}

func TestRunner_FullSuitePasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(batchAwareHandler))
	defer server.Close()

	runner := newSuiteRunner(server.URL)
	summary, err := runner.Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.AllPassed())
	assert.NotEmpty(t, summary.RunID)
}

func TestRunner_SingleFailureIsIsolated(t *testing.T) {
	// The batch trigger misbehaves with 500; the empty-symbols probe still
	// gets rejected correctly.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/batch-analysis-trigger" {
			var payload struct {
				Symbols []string `json:"symbols"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			if len(payload.Symbols) == 0 {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "queue unavailable"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	runner := newSuiteRunner(server.URL)
	summary, err := runner.Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.AllPassed())

	for _, res := range summary.Results {
		if res.Name == "Batch Analysis" {
			assert.False(t, res.Passed)
			assert.Equal(t, 500, res.Detail["status"])
		} else {
			assert.True(t, res.Passed, "scenario %s should not be affected", res.Name)
		}
	}
}

func TestRunner_ResultOrderMatchesDeclarationOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(batchAwareHandler))
	defer server.Close()

	scenarios := BuiltinScenarios()
	runner := newSuiteRunner(server.URL)
	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	require.Len(t, summary.Results, len(scenarios))
	for i, sc := range scenarios {
		assert.Equal(t, sc.Name, summary.Results[i].Name)
	}
}

func TestRunner_OneResultPerScenarioOnTransportFailure(t *testing.T) {
	// Nothing is listening: every scenario must still yield exactly one
	// judged result, and only the rejection probe passes.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	runner := newSuiteRunner(url)
	summary, err := runner.Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Successful) // Error Handling treats no-response as rejection
	assert.Equal(t, 4, summary.Failed)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed)
}

func TestRunner_Idempotence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(batchAwareHandler))
	defer server.Close()

	first, err := newSuiteRunner(server.URL).Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)
	second, err := newSuiteRunner(server.URL).Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Passed, second.Results[i].Passed,
			"scenario %s verdict changed between runs", first.Results[i].Name)
	}
}

func TestRunner_IsOneShot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(batchAwareHandler))
	defer server.Close()

	runner := newSuiteRunner(server.URL)
	_, err := runner.Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), BuiltinScenarios())
	assert.Error(t, err)
}

func TestRunner_PauseBetweenScenarios(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	scenarios := []Scenario{
		{Name: "a", Path: "thub-test", Payload: map[string]any{}, Timeout: time.Second, Judge: ExpectSuccess},
		{Name: "b", Path: "thub-test", Payload: map[string]any{}, Timeout: time.Second, Judge: ExpectSuccess},
	}

	reporter := NewConsoleReporter(io.Discard, false)
	runner := NewRunner(NewWebhookInvoker(server.URL), reporter, server.URL, 100*time.Millisecond)
	_, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.GreaterOrEqual(t, hits[1].Sub(hits[0]), 100*time.Millisecond)
}

func TestRunner_RunIDStampedIntoBatchMetadata(t *testing.T) {
	var mu sync.Mutex
	var batchMetadata map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/batch-analysis-trigger" {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			if meta, ok := payload["metadata"].(map[string]any); ok {
				mu.Lock()
				batchMetadata = meta
				mu.Unlock()
			}
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	runner := newSuiteRunner(server.URL)
	summary, err := runner.Run(context.Background(), BuiltinScenarios())
	require.NoError(t, err)

	require.NotNil(t, batchMetadata)
	assert.Equal(t, summary.RunID, batchMetadata["runId"])
	assert.NotEmpty(t, batchMetadata["timestamp"])
}
