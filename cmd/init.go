package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/resume-agent/internal/config"
	"github.com/spigell/resume-agent/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create the env file",
	Run: func(cmd *cobra.Command, _ []string) {
		initEnvFile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing env file")
}

func initEnvFile(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	settings, err := promptSettings()
	if err != nil {
		logger.Fatal("reading answers", zap.Error(err))
	}

	if err := settings.Validate(); err != nil {
		logger.Fatal("validating answers", zap.Error(err))
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		logger.Fatal("reading --force flag", zap.Error(err))
	}

	if err := config.WriteEnvFile(envFile, settings, force); err != nil {
		logger.Fatal("writing env file", zap.Error(err), zap.String("hint", "use --force to overwrite"))
	}

	logger.Info("env file written", zap.String("filename", envFile))
}

func promptSettings() (*config.Settings, error) {
	apiKey, err := (&promptui.Prompt{
		Label:    "OpenAI API key",
		Mask:     '*',
		Validate: required,
	}).Run()
	if err != nil {
		return nil, err
	}

	databaseURL, err := promptWithDefault("Database URL", config.DefaultDatabaseURL)
	if err != nil {
		return nil, err
	}

	appName, err := promptWithDefault("Application name", config.DefaultAppName)
	if err != nil {
		return nil, err
	}

	frontendURL, err := promptWithDefault("Frontend URL", config.DefaultFrontendURL)
	if err != nil {
		return nil, err
	}

	debugPrompt := promptui.Select{
		Label: "Enable debug mode?",
		Items: []string{PromptNo, PromptYes},
	}
	_, debug, err := debugPrompt.Run()
	if err != nil {
		return nil, err
	}

	return &config.Settings{
		OpenAIAPIKey: strings.TrimSpace(apiKey),
		DatabaseURL:  strings.TrimSpace(databaseURL),
		AppName:      strings.TrimSpace(appName),
		Debug:        debug == PromptYes,
		FrontendURL:  strings.TrimSpace(frontendURL),
	}, nil
}

func promptWithDefault(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  required,
	}

	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}

	return value, nil
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("value is required")
	}
	return nil
}
