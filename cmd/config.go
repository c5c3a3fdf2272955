package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Print the effective settings with secrets masked",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		pretty, err := json.MarshalIndent(settings.Redacted(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
