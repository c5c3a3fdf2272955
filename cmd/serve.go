package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spigell/resume-agent/internal/logger"
	"github.com/spigell/resume-agent/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 8000
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Resume Agent API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", defaultHost, "interface to listen on")
	serveCmd.Flags().IntP("port", "p", defaultPort, "port to listen on (PORT environment variable)")

	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Fatal(
			"loading settings",
			zap.Error(err),
			zap.String("env_file", envFile),
			zap.String("hint", "set OPENAI_API_KEY in the environment or the env file, or run `"+app+" init`"),
		)
	}

	if settings.Debug && !viper.GetBool("debug") {
		logger, err = rebuildLogger(logger, true)
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
	}
	defer logger.Sync()

	logger.Info("starting the resume-agent", zap.String("version", version), zap.String("app_name", settings.AppName))

	// do not bother error since settings are plain values
	pretty, _ := json.MarshalIndent(settings.Redacted(), "", "  ")
	logger.Debug(fmt.Sprintf("starting with settings: \n %s", pretty))

	addr := net.JoinHostPort(viper.GetString("host"), strconv.Itoa(viper.GetInt("port")))

	if err := server.New(settings, logger).Run(ctx, addr); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown complete"))
}

func rebuildLogger(old *zap.Logger, debug bool) (*zap.Logger, error) {
	_ = old.Sync()
	return logger.New(viper.GetBool("json"), debug)
}
