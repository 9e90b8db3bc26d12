package harness

import "time"

// BuiltinScenarios returns the fixed production validation suite. The list
// is declarative data: adding a scenario is a data change, not a
// control-flow change, and the runner stays a single uniform loop.
//
// Timeouts are tuned per endpoint: 10s for simple checks, 15s for the
// deploy-ready check (it triggers a secondary API call on the remote side),
// 20s for the batch trigger.
func BuiltinScenarios() []Scenario {
	return []Scenario{
		{
			Name: "Simple Webhook",
			Path: "thub-test",
			Payload: map[string]any{
				"test":      "simple",
				"timestamp": nil,
			},
			Timeout: 10 * time.Second,
			Judge:   ExpectSuccess,
		},
		{
			Name: "Deploy-Ready Webhook",
			Path: "test-webhook",
			Payload: map[string]any{
				"action":    "test",
				"source":    "flowcheck",
				"timestamp": nil,
			},
			Timeout: 15 * time.Second,
			Judge:   ExpectSuccess,
		},
		{
			Name: "Batch Analysis",
			Path: "batch-analysis-trigger",
			Payload: map[string]any{
				"symbols":  []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "META", "NVDA"},
				"priority": "normal",
				"metadata": map[string]any{
					"source":    "flowcheck",
					"test":      true,
					"runId":     nil,
					"timestamp": nil,
				},
			},
			Timeout: 20 * time.Second,
			Judge:   ExpectSuccess,
		},
		{
			Name: "Market Scan Action",
			Path: "thub-test",
			Payload: map[string]any{
				"action": "market_scan",
				"filters": map[string]any{
					"limit":     10,
					"minVolume": 1000000,
					"minPrice":  5,
					"maxPrice":  500,
				},
				"timestamp": nil,
			},
			Timeout:     10 * time.Second,
			Judge:       ExpectSuccess,
			Diagnostics: ExtractMockScan,
		},
		{
			// Probes rejection behavior: an empty symbol list must not be
			// accepted, so the pass/fail polarity is inverted.
			Name: "Error Handling",
			Path: "batch-analysis-trigger",
			Payload: map[string]any{
				"symbols":  []string{},
				"priority": "normal",
			},
			Timeout: 10 * time.Second,
			Judge:   ExpectRejection,
		},
	}
}

// ExtractMockScan surfaces the optional mockScan counters a market-scan
// response may carry. Display only — never used for pass/fail.
func ExtractMockScan(body any) map[string]any {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	scan, ok := obj["mockScan"].(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string]any)
	for _, field := range []string{"totalScanned", "filtered", "queued"} {
		if v, ok := scan[field]; ok {
			out[field] = v
		}
	}
	if candidates, ok := scan["candidates"].([]any); ok {
		out["candidates"] = len(candidates)
	}
	return out
}
