package harness

// Evaluate judges one invocation outcome against the scenario's predicate
// and assembles the detail fields to surface. Pure given its inputs: no
// hidden state, no I/O.
func Evaluate(sc Scenario, o Outcome) ScenarioResult {
	passed := sc.Judge(o)

	detail := make(map[string]any)
	if o.StatusCode != 0 {
		detail["status"] = o.StatusCode
	}
	if o.TransportFailed() {
		detail["transport_error"] = o.TransportError
	}
	if o.Body != nil {
		detail["body"] = o.Body
	}
	if passed && sc.Diagnostics != nil {
		for k, v := range sc.Diagnostics(o.Body) {
			detail[k] = v
		}
	}

	return ScenarioResult{
		Name:     sc.Name,
		Passed:   passed,
		Detail:   detail,
		Duration: o.Duration,
	}
}
