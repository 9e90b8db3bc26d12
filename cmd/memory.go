package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"flowcheck/internal/config"
	"flowcheck/internal/memstore"
	"flowcheck/pkg/logging"
)

var (
	memoryEndpoint string
	memoryDebug    bool
)

// memoryCmd represents the memory command
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Push project status notes to the knowledge store",
	Long: `The memory command records the current project status notes
(entities and relations) in the knowledge-store MCP server. It runs
out-of-band from validation: the check command never depends on it, and a
failure here does not affect any suite verdict.

Example usage:
  flowcheck memory
  flowcheck memory --endpoint=http://localhost:8090/mcp`,
	RunE: runMemory,
}

func init() {
	rootCmd.AddCommand(memoryCmd)

	memoryCmd.Flags().StringVar(&memoryEndpoint, "endpoint", "", "Knowledge-store MCP endpoint (default: configuration/environment)")
	memoryCmd.Flags().BoolVar(&memoryDebug, "debug", false, "Enable debug logging")
}

func runMemory(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if memoryDebug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	cfg, err := config.FromEnvironment()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.MemoryEndpoint = memoryEndpoint
	}

	client := memstore.NewClient()
	if err := client.Connect(cmd.Context(), cfg.MemoryEndpoint); err != nil {
		return fmt.Errorf("failed to connect to knowledge store: %w", err)
	}
	defer client.Close()

	entities, relations := memstore.StatusNotes(time.Now())

	if err := client.CreateEntities(cmd.Context(), entities); err != nil {
		return fmt.Errorf("failed to create entities: %w", err)
	}
	logging.Info("Memory", "Stored %d entities", len(entities))

	if err := client.CreateRelations(cmd.Context(), relations); err != nil {
		return fmt.Errorf("failed to create relations: %w", err)
	}
	logging.Info("Memory", "Stored %d relations", len(relations))

	return nil
}
