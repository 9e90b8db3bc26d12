// Package harness validates that the externally hosted THub V2 automation
// workflows are reachable, respond within bounded time, and produce
// payloads of the expected shape under both valid and deliberately invalid
// input.
//
// The harness is a smoke test for an operator, not a general test
// framework. Scenarios are declarative data (endpoint path, payload
// template, timeout, success predicate); the runner is one uniform
// sequential loop over them. Each scenario gets a single bounded-timeout
// HTTP POST (no retries, no parallelism) and always produces exactly one
// judged result, so the suite never aborts early and the process exit
// status is the single machine-readable health signal.
package harness
