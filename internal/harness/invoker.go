package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Invoker performs a single bounded-timeout webhook invocation. It never
// retries and never interprets status codes; classification belongs to the
// evaluator.
type Invoker interface {
	Invoke(ctx context.Context, path string, payload map[string]any, timeout time.Duration) Outcome
}

// WebhookInvoker posts JSON payloads to webhook paths under one base URL.
type WebhookInvoker struct {
	baseURL string
	client  *http.Client
}

// NewWebhookInvoker creates an invoker for the given base URL. The timeout
// is applied per invocation, not on the shared client.
func NewWebhookInvoker(baseURL string) *WebhookInvoker {
	return &WebhookInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Invoke sends one HTTP POST with the JSON-encoded payload and returns a
// normalized outcome. Transport-level failures (timeout, DNS, connection
// refused, TLS) surface as TransportError with StatusCode 0; they are
// never raised to the caller.
func (i *WebhookInvoker) Invoke(ctx context.Context, path string, payload map[string]any, timeout time.Duration) Outcome {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{
			TransportError: fmt.Sprintf("failed to encode payload: %v", err),
			Duration:       time.Since(start),
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := i.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Outcome{
			TransportError: fmt.Sprintf("failed to create request: %v", err),
			Duration:       time.Since(start),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return Outcome{
			TransportError: transportMessage(err, timeout),
			Duration:       time.Since(start),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{
			TransportError: fmt.Sprintf("failed to read response body: %v", err),
			Duration:       time.Since(start),
		}
	}

	return Outcome{
		StatusCode: resp.StatusCode,
		Body:       parseBody(raw),
		Duration:   time.Since(start),
	}
}

// parseBody attempts JSON first and degrades to the raw text. A non-JSON
// body is not a failure by itself.
func parseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw)
	}
	return parsed
}

func transportMessage(err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("request timed out after %s", timeout)
	}
	return err.Error()
}
