package cmd

import (
	"log"

	"github.com/spigell/resume-agent/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-agent"
)

var (
	// Used for flags.
	envFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-agent is the backend API of the Resume Agent service",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("port", "PORT"); err != nil {
		log.Fatalf("binding PORT environment variable: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "a dotenv file with settings, skipped when missing")
	rootCmd.PersistentFlags().BoolP(config.KeyDebug, "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup(config.KeyDebug))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// loadSettings resolves settings for cmd from the env file, the environment
// and the flags of cmd named after settings keys. Every failure is a
// *config.Error.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	return config.NewProvider(config.NewLoader(envFile, cmd.Flags())).Settings()
}
