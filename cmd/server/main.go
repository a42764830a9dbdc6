package main

import (
	"fmt"
	"os"

	"github.com/anonto42/story-creator/backend/pkg/config"
	"github.com/anonto42/story-creator/backend/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "story-creator",
	Short:         "Story publishing site for readers, authors and admins",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newPublishDueCommand())
	rootCmd.AddCommand(newCreateAdminCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the application logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
		Outputs:     cfg.LogOutput,
		Development: !cfg.IsProduction(),
		Service:     "story-creator",
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
