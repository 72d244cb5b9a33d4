package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
)

var (
	envFile string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "zalo-admin",
		Short: "Maintenance commands for the Zalo inventory bot",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			} else {
				_ = godotenv.Load()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default: ./.env)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(classifyCmd())
	root.AddCommand(checkStockCmd())
	root.AddCommand(reindexCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(rotateKeyCmd())
	root.AddCommand(signCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadConfig loads and validates the environment configuration
func loadConfig() (*conf.Config, error) {
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openRepositories() (*conf.Config, *data.Repositories, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	repos, err := data.NewRepositories(cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return cfg, repos, nil
}
