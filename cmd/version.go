package cmd

import (
	"fmt"

	"github.com/spigell/resume-agent/internal/server"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s (api %s)\n", app, version, server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
