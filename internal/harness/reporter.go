package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Reporter renders suite progress and the final tally. Reporters carry no
// decision logic; a reporter failure never affects the exit status.
type Reporter interface {
	// ReportStart is called once before the first scenario.
	ReportStart(baseURL string, total int)
	// ReportScenarioStart is called before each invocation. index is
	// 1-based declaration order.
	ReportScenarioStart(index int, sc Scenario)
	// ReportScenarioResult is called after each scenario is judged.
	ReportScenarioResult(res ScenarioResult)
	// ReportSummary is called once with the derived suite summary.
	ReportSummary(sum SuiteSummary)
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const separator = "============================================================"

// detail keys written by the evaluator itself; everything else in the
// detail map came from a diagnostic extractor.
var reservedDetailKeys = map[string]bool{
	"status":          true,
	"transport_error": true,
	"body":            true,
}

// ConsoleReporter writes human-readable status lines. With verbose enabled
// it also echoes response bodies on success.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
	baseURL string
}

// NewConsoleReporter creates the default operator-facing reporter.
func NewConsoleReporter(out io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, verbose: verbose}
}

func (r *ConsoleReporter) ReportStart(baseURL string, total int) {
	r.baseURL = baseURL
	fmt.Fprintln(r.out, headerStyle.Render(separator))
	fmt.Fprintln(r.out, headerStyle.Render("THub V2 Workflow Validation Suite"))
	fmt.Fprintln(r.out, headerStyle.Render(separator))
	fmt.Fprintf(r.out, "Base URL: %s\n", baseURL)
	fmt.Fprintf(r.out, "Scenarios: %d\n", total)
}

func (r *ConsoleReporter) ReportScenarioStart(index int, sc Scenario) {
	fmt.Fprintf(r.out, "\n%s\n", headerStyle.Render(fmt.Sprintf("Test %d: %s", index, sc.Name)))
	fmt.Fprintf(r.out, "Endpoint: %s/%s\n", r.baseURL, sc.Path)
	fmt.Fprintln(r.out, "----------------------------------------")
}

func (r *ConsoleReporter) ReportScenarioResult(res ScenarioResult) {
	status, hasStatus := res.Detail["status"].(int)
	transportErr, hadTransportErr := res.Detail["transport_error"].(string)

	switch {
	case res.Passed && hasStatus && status != 200:
		fmt.Fprintln(r.out, passStyle.Render(fmt.Sprintf("✓ Correctly rejected invalid payload (%d)", status)))
	case res.Passed && hadTransportErr:
		fmt.Fprintln(r.out, passStyle.Render("✓ Correctly rejected invalid payload (no response)"))
	case res.Passed:
		fmt.Fprintln(r.out, passStyle.Render("✓ Success (200)"))
	case hadTransportErr:
		fmt.Fprintln(r.out, failStyle.Render(fmt.Sprintf("✗ Error: %s", transportErr)))
	case hasStatus:
		fmt.Fprintln(r.out, failStyle.Render(fmt.Sprintf("✗ Failed (%d)", status)))
	default:
		fmt.Fprintln(r.out, failStyle.Render("✗ Failed"))
	}

	r.printDiagnostics(res)

	if body, ok := res.Detail["body"]; ok && (r.verbose || !res.Passed) {
		fmt.Fprintf(r.out, "Response: %s\n", formatBody(body))
	}
}

// printDiagnostics renders extractor fields in a stable order.
func (r *ConsoleReporter) printDiagnostics(res ScenarioResult) {
	var keys []string
	for k := range res.Detail {
		if !reservedDetailKeys[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	fmt.Fprintln(r.out, noteStyle.Render("Scan results:"))
	for _, k := range keys {
		fmt.Fprintf(r.out, "  %s: %v\n", k, res.Detail[k])
	}
}

func (r *ConsoleReporter) ReportSummary(sum SuiteSummary) {
	r.printScheduledWorkflows()

	fmt.Fprintf(r.out, "\n%s\n", headerStyle.Render(separator))
	fmt.Fprintln(r.out, headerStyle.Render("Test Summary"))
	fmt.Fprintln(r.out, headerStyle.Render(separator))

	fmt.Fprintf(r.out, "Total Tests: %d\n", sum.Total)
	fmt.Fprintln(r.out, passStyle.Render(fmt.Sprintf("Successful: %d", sum.Successful)))
	fmt.Fprintln(r.out, failStyle.Render(fmt.Sprintf("Failed: %d", sum.Failed)))

	fmt.Fprintln(r.out, "\nDetailed Results:")
	for _, res := range sum.Results {
		glyph := passStyle.Render("✓")
		if !res.Passed {
			glyph = failStyle.Render("✗")
		}
		fmt.Fprintf(r.out, "%s %s\n", glyph, res.Name)
	}

	r.printNextSteps()
}

// printScheduledWorkflows emits static operator information about the
// schedule-driven workflows. Fixed text, not derived from live state: the
// schedules themselves run out-of-band and are never validated here.
func (r *ConsoleReporter) printScheduledWorkflows() {
	fmt.Fprintf(r.out, "\n%s\n", noteStyle.Render(separator))
	fmt.Fprintln(r.out, noteStyle.Render("Scheduled Workflows Information"))
	fmt.Fprintln(r.out, noteStyle.Render(separator))

	fmt.Fprintln(r.out, "\n1. Market Scanner (ID: fPC0yQPZZGK0nDyc)")
	fmt.Fprintln(r.out, "   - Schedule: Every 30 minutes during market hours (9:30 AM - 4:00 PM EST)")
	fmt.Fprintln(r.out, "   - Checks VIX for market volatility")
	fmt.Fprintln(r.out, "   - Applies adaptive filters based on conditions")
	fmt.Fprintln(r.out, "   - Can be manually triggered in the n8n UI")

	fmt.Fprintln(r.out, "\n2. Signal Monitor (ID: Vsm1O5ROZxCTKIBh)")
	fmt.Fprintln(r.out, "   - Schedule: Every 15 minutes")
	fmt.Fprintln(r.out, "   - Monitors active signals with score >= 70")
	fmt.Fprintln(r.out, "   - Identifies signals needing refresh")
	fmt.Fprintln(r.out, "   - Can be manually triggered in the n8n UI")
}

func (r *ConsoleReporter) printNextSteps() {
	fmt.Fprintf(r.out, "\n%s\n", noteStyle.Render("Next Steps:"))
	fmt.Fprintln(r.out, "1. Check the n8n execution history for the invoked workflows")
	fmt.Fprintln(r.out, "2. Verify scheduled workflows are active in the n8n UI")
	fmt.Fprintln(r.out, "3. Monitor THub V2 application logs for webhook processing")
	fmt.Fprintln(r.out, "4. Test during market hours for realistic conditions")
	fmt.Fprintln(r.out, "5. Check the hosting dashboard logs for delivery errors")
}

// QuietReporter prints failures and a single summary line, for CI use.
type QuietReporter struct {
	out io.Writer
}

// NewQuietReporter creates a reporter that only outputs essential lines.
func NewQuietReporter(out io.Writer) *QuietReporter {
	return &QuietReporter{out: out}
}

func (r *QuietReporter) ReportStart(baseURL string, total int)    {}
func (r *QuietReporter) ReportScenarioStart(index int, sc Scenario) {}

func (r *QuietReporter) ReportScenarioResult(res ScenarioResult) {
	if res.Passed {
		return
	}
	fmt.Fprintf(r.out, "✗ %s: %s\n", res.Name, failureCause(res))
}

func (r *QuietReporter) ReportSummary(sum SuiteSummary) {
	if sum.AllPassed() {
		fmt.Fprintf(r.out, "✓ All %d tests passed\n", sum.Total)
		return
	}
	fmt.Fprintf(r.out, "✗ %d/%d tests failed\n", sum.Failed, sum.Total)
}

// JSONReporter emits the complete suite result as JSON for machine
// consumption; everything else stays silent.
type JSONReporter struct {
	out io.Writer
}

// NewJSONReporter creates a machine-readable reporter.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

func (r *JSONReporter) ReportStart(baseURL string, total int)      {}
func (r *JSONReporter) ReportScenarioStart(index int, sc Scenario) {}
func (r *JSONReporter) ReportScenarioResult(res ScenarioResult)    {}

func (r *JSONReporter) ReportSummary(sum SuiteSummary) {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, `{"error": %q}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(r.out, string(data))
}

// SaveReport writes a timestamped JSON suite report into dir and returns
// the path written.
func SaveReport(sum SuiteSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("flowcheck-report-%s.json", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

func failureCause(res ScenarioResult) string {
	if msg, ok := res.Detail["transport_error"].(string); ok {
		return msg
	}
	if status, ok := res.Detail["status"].(int); ok {
		return fmt.Sprintf("unexpected status %d", status)
	}
	return "failed"
}

func formatBody(body any) string {
	switch body.(type) {
	case map[string]any, []any:
		if data, err := json.MarshalIndent(body, "", "  "); err == nil {
			return string(data)
		}
	}
	s := fmt.Sprintf("%v", body)
	const maxLength = 500
	if len(s) > maxLength {
		return s[:maxLength] + "..."
	}
	return s
}
