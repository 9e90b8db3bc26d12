package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// runState tracks the orchestrator lifecycle: Idle before any scenario
// starts, Running while the loop is executing, Completed after the summary
// has been computed.
type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateCompleted
)

// Runner owns the ordered scenario list for one suite invocation. Scenarios
// run strictly sequentially in declared order with a fixed pause between
// them; a failed scenario never aborts the suite. A Runner is one-shot —
// rerunning the suite means constructing a fresh Runner, which keeps all
// running state local to one invocation.
type Runner struct {
	invoker  Invoker
	reporter Reporter
	baseURL  string
	pause    time.Duration
	state    runState
	results  []ScenarioResult
}

// NewRunner creates a runner. pause is the inter-scenario delay, inserted
// purely to pace load on the remote service.
func NewRunner(invoker Invoker, reporter Reporter, baseURL string, pause time.Duration) *Runner {
	return &Runner{
		invoker:  invoker,
		reporter: reporter,
		baseURL:  baseURL,
		pause:    pause,
	}
}

// Run executes every scenario in declared order and returns the derived
// summary. Exactly one ScenarioResult is produced per scenario regardless
// of transport outcome. The only error condition is harness misuse.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*SuiteSummary, error) {
	if r.state != stateIdle {
		return nil, fmt.Errorf("runner already used; create a new one per suite run")
	}
	r.state = stateRunning

	summary := SuiteSummary{
		RunID:     uuid.NewString(),
		BaseURL:   r.baseURL,
		StartTime: time.Now(),
	}
	builder := NewPayloadBuilder(summary.RunID)

	r.reporter.ReportStart(r.baseURL, len(scenarios))

	for i, sc := range scenarios {
		r.reporter.ReportScenarioStart(i+1, sc)

		payload := builder.Build(sc.Payload)
		outcome := r.invoker.Invoke(ctx, sc.Path, payload, sc.Timeout)
		result := Evaluate(sc, outcome)

		r.results = append(r.results, result)
		r.reporter.ReportScenarioResult(result)

		if i < len(scenarios)-1 {
			r.waitBetween(ctx)
		}
	}

	summary.Results = r.results
	summary.Total = len(r.results)
	for _, res := range r.results {
		if res.Passed {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)

	r.state = stateCompleted
	r.reporter.ReportSummary(summary)

	return &summary, nil
}

func (r *Runner) waitBetween(ctx context.Context) {
	if r.pause <= 0 {
		return
	}
	select {
	case <-time.After(r.pause):
	case <-ctx.Done():
	}
}
