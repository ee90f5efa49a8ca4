package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/internal/config"
)

var (
	debug   bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "audexa",
	Short: "AUDEXA - multilingual mental-health conversational assistant",
	Long: `AUDEXA answers supportive conversations in many languages over HTTP,
websocket and Telegram, by text or by voice.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is parsed")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Server.Debug = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
