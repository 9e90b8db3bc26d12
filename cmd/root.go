package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flowcheck",
	Short: "Validate THub V2 workflow webhooks",
	Long: `flowcheck is the operator smoke-test harness for the THub V2
workflow-automation deployment. It invokes every production webhook with a
constructed payload, judges each response against the scenario's contract,
and exits non-zero when any check fails.`,
	// SilenceUsage is set to true to prevent printing usage message on
	// errors handled by us (e.g. invalid arguments, failed connections)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "flowcheck version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
