package harness

import (
	"net/http"
	"time"
)

// Predicate decides whether an invocation outcome counts as a pass for a
// scenario. Most scenarios expect success; the deliberately-invalid one
// expects the endpoint to reject the request.
type Predicate func(Outcome) bool

// Extractor pulls display-only diagnostic fields out of a response body.
// Returning nil means there is nothing extra to show.
type Extractor func(body any) map[string]any

// Scenario is one declared test case: an endpoint path, a payload template,
// a timeout and a success predicate. Scenarios are immutable once declared.
type Scenario struct {
	// Name uniquely identifies the scenario in reports.
	Name string
	// Path is the webhook path relative to the configured base URL.
	Path string
	// Payload is the request body template. It is deep-copied and stamped
	// with the current timestamp before every invocation.
	Payload map[string]any
	// Timeout bounds the single invocation attempt.
	Timeout time.Duration
	// Judge decides pass/fail from the raw outcome.
	Judge Predicate
	// Diagnostics optionally extracts extra fields for display on pass.
	Diagnostics Extractor
}

// Outcome is the raw result of one HTTP invocation attempt.
type Outcome struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Body holds the parsed JSON response, or the raw text when the body
	// was not valid JSON.
	Body any
	// TransportError is non-empty iff the request failed below HTTP level
	// (timeout, DNS, connection refused, TLS).
	TransportError string
	// Duration is the wall time of the attempt.
	Duration time.Duration
}

// TransportFailed reports whether the invocation never produced a response.
func (o Outcome) TransportFailed() bool {
	return o.TransportError != ""
}

// ScenarioResult is the judged verdict for one scenario.
type ScenarioResult struct {
	Name     string         `json:"name"`
	Passed   bool           `json:"passed"`
	Detail   map[string]any `json:"detail,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// SuiteSummary is derived from the ordered result sequence after a run.
type SuiteSummary struct {
	RunID      string           `json:"run_id"`
	BaseURL    string           `json:"base_url"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	Duration   time.Duration    `json:"duration"`
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []ScenarioResult `json:"results"`
}

// AllPassed reports overall suite success. This is the sole signal the
// process exit status is derived from.
func (s SuiteSummary) AllPassed() bool {
	return s.Failed == 0
}

// ExpectSuccess is the default predicate: a response was received and the
// endpoint answered 200.
func ExpectSuccess(o Outcome) bool {
	return !o.TransportFailed() && o.StatusCode == http.StatusOK
}

// ExpectRejection inverts the polarity for the invalid-input scenario: the
// endpoint must NOT accept the request. Any non-200 status counts as a
// correct rejection, as does a transport-level failure. The rejection
// reason is deliberately not inspected.
func ExpectRejection(o Outcome) bool {
	return o.TransportFailed() || o.StatusCode != http.StatusOK
}
