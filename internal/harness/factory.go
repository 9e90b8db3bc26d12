package harness

import (
	"io"

	"flowcheck/internal/config"
)

// Framework holds the wired components for one suite run.
type Framework struct {
	Runner   *Runner
	Reporter Reporter
}

// NewFramework wires an invoker, reporter and runner from the resolved
// configuration. Output selection: JSON beats quiet beats console.
func NewFramework(cfg config.Config, out io.Writer) *Framework {
	var reporter Reporter
	switch {
	case cfg.JSONOutput:
		reporter = NewJSONReporter(out)
	case cfg.Quiet:
		reporter = NewQuietReporter(out)
	default:
		reporter = NewConsoleReporter(out, cfg.Verbose)
	}

	invoker := NewWebhookInvoker(cfg.BaseURL)
	runner := NewRunner(invoker, reporter, cfg.BaseURL, cfg.Pause)

	return &Framework{
		Runner:   runner,
		Reporter: reporter,
	}
}
