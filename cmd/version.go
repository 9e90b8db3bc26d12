package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of flowcheck",
		Long:  `All software has versions. This is flowcheck's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowcheck version %s\n", rootCmd.Version)
		},
	}
}
