package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiftype/app-search-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "appsearch %s (commit %s, built %s)\n",
			version.Version, version.Commit, version.Date)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
