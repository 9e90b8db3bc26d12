package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized on top of the defaults. All optional;
// the harness runs with no environment at all.
const (
	EnvBaseURL        = "FLOWCHECK_BASE_URL"
	EnvMemoryEndpoint = "FLOWCHECK_MEMORY_ENDPOINT"
	EnvPause          = "FLOWCHECK_PAUSE"
)

const (
	// DefaultBaseURL is the production n8n webhook root.
	DefaultBaseURL = "https://n8n.thub-v2.app/webhook"
	// DefaultMemoryEndpoint is the knowledge-store MCP server used for
	// out-of-band project status notes.
	DefaultMemoryEndpoint = "http://localhost:8090/mcp"
	// DefaultPause is the fixed inter-scenario delay. It paces load on the
	// remote service and lets log timestamps separate between scenarios.
	DefaultPause = 1 * time.Second
)

// Config carries the resolved settings for one invocation. Precedence:
// command-line flags over environment over defaults.
type Config struct {
	// BaseURL is the webhook root all scenario paths are appended to.
	BaseURL string
	// Pause is the fixed delay between scenarios.
	Pause time.Duration
	// MemoryEndpoint is the MCP endpoint of the knowledge store.
	MemoryEndpoint string
	// Verbose echoes response bodies on success.
	Verbose bool
	// Quiet reduces output to failures plus one summary line.
	Quiet bool
	// JSONOutput emits the suite result as JSON instead of text.
	JSONOutput bool
	// ReportDir, when set, receives a timestamped JSON report file.
	ReportDir string
	// ScenarioFile, when set, adds scenarios from a YAML file.
	ScenarioFile string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Pause:          DefaultPause,
		MemoryEndpoint: DefaultMemoryEndpoint,
	}
}

// FromEnvironment layers environment overrides onto the defaults. A .env
// file in the working directory is honored when present; a missing one is
// not an error.
func FromEnvironment() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvMemoryEndpoint); v != "" {
		cfg.MemoryEndpoint = v
	}
	if v := os.Getenv(EnvPause); v != "" {
		pause, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvPause, v, err)
		}
		cfg.Pause = pause
	}
	return cfg, nil
}

// Validate checks the resolved configuration for harness-setup errors.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must not be negative, got %s", c.Pause)
	}
	return nil
}
