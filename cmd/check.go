package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"flowcheck/internal/config"
	"flowcheck/internal/harness"
	"flowcheck/pkg/logging"
)

var (
	checkBaseURL      string
	checkPause        time.Duration
	checkVerbose      bool
	checkQuiet        bool
	checkJSON         bool
	checkReportDir    string
	checkScenarioFile string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the full webhook validation suite",
	Long: `The check command runs the fixed sequence of webhook validation
scenarios against the configured n8n base URL:

1. Simple Webhook        - echo-style reachability check
2. Deploy-Ready Webhook  - connectivity check with a secondary API call
3. Batch Analysis        - batch trigger with a list of symbols
4. Market Scan Action    - market_scan action over the simple webhook
5. Error Handling        - empty symbol list, the endpoint must reject it

Each scenario performs exactly one bounded-timeout HTTP POST; there is no
retry and no parallelism. A failed scenario never aborts the suite. The
process exits 0 only when every scenario passed.

Example usage:
  flowcheck check                              # Run the built-in suite
  flowcheck check --base-url=https://n8n.example.com/webhook
  flowcheck check --verbose                    # Echo response bodies
  flowcheck check --quiet                      # Failures + summary only
  flowcheck check --json                       # Machine-readable output
  flowcheck check --report=./reports           # Also write a JSON report
  flowcheck check --scenarios=extra.yaml       # Append scenarios from YAML`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkBaseURL, "base-url", "", "Webhook base URL (default: configuration/environment)")
	checkCmd.Flags().DurationVar(&checkPause, "pause", config.DefaultPause, "Fixed delay between scenarios")
	checkCmd.Flags().BoolVar(&checkVerbose, "verbose", false, "Echo response bodies on success")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false, "Only print failures and the final summary line")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Emit the suite result as JSON")
	checkCmd.Flags().StringVar(&checkReportDir, "report", "", "Directory to write a timestamped JSON report into")
	checkCmd.Flags().StringVar(&checkScenarioFile, "scenarios", "", "YAML file with additional scenarios to append")

	checkCmd.MarkFlagsMutuallyExclusive("quiet", "json")
	checkCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	checkCmd.MarkFlagsMutuallyExclusive("verbose", "json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupts gracefully. A cancelled context makes the
	// remaining invocations fail fast as transport errors; every scenario
	// still produces a result.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	cfg, err := config.FromEnvironment()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = checkBaseURL
	}
	if cmd.Flags().Changed("pause") {
		cfg.Pause = checkPause
	}
	cfg.Verbose = checkVerbose
	cfg.Quiet = checkQuiet
	cfg.JSONOutput = checkJSON
	cfg.ReportDir = checkReportDir
	cfg.ScenarioFile = checkScenarioFile

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scenarios := harness.BuiltinScenarios()
	if cfg.ScenarioFile != "" {
		extra, err := harness.LoadScenarios(cfg.ScenarioFile)
		if err != nil {
			return fmt.Errorf("failed to load extra scenarios: %w", err)
		}
		scenarios = append(scenarios, extra...)
	}

	framework := harness.NewFramework(cfg, os.Stdout)
	summary, err := framework.Runner.Run(ctx, scenarios)
	if err != nil {
		return fmt.Errorf("suite execution failed: %w", err)
	}

	if cfg.ReportDir != "" {
		path, err := harness.SaveReport(*summary, cfg.ReportDir)
		if err != nil {
			logging.Error("Check", err, "Failed to save report")
		} else {
			logging.Info("Check", "Report saved to %s", path)
		}
	}

	// The exit status is the single machine-readable signal of suite
	// health.
	if !summary.AllPassed() {
		os.Exit(1)
	}
	return nil
}
