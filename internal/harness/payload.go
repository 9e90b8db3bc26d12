package harness

import "time"

// timestampLayout renders an ISO-8601 instant with microsecond precision
// and a trailing Z for UTC, matching what the workflows expect.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// PayloadBuilder turns a scenario's payload template into a concrete
// request body. "Current time" is isolated here so tests can substitute a
// fixed clock and assert exact payload shape.
type PayloadBuilder struct {
	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time
	// RunID fills `runId` placeholder fields so remote executions can be
	// correlated back to one suite run.
	RunID string
}

// NewPayloadBuilder returns a builder using the real clock.
func NewPayloadBuilder(runID string) *PayloadBuilder {
	return &PayloadBuilder{Now: time.Now, RunID: runID}
}

// Build returns a deep copy of the template with every `timestamp` field
// (at any nesting depth) set to the current UTC instant, and every `runId`
// field set to the run identifier. Templates without those fields are
// returned unstamped: the invalid-input scenario carries neither.
func (b *PayloadBuilder) Build(template map[string]any) map[string]any {
	stamp := b.Now().UTC().Format(timestampLayout)
	payload := copyMap(template)
	b.fill(payload, stamp)
	return payload
}

func (b *PayloadBuilder) fill(m map[string]any, stamp string) {
	for key, value := range m {
		switch key {
		case "timestamp":
			m[key] = stamp
		case "runId":
			m[key] = b.RunID
		default:
			if nested, ok := value.(map[string]any); ok {
				b.fill(nested, stamp)
			}
		}
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
