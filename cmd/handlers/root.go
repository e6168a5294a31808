package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bylines/internal/config"
	"bylines/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bylines",
		Short: "Bylines scrapes journalist profiles and answers questions about their articles.",
		Long: `Bylines tracks journalists on a news site: it discovers their articles,
stores full text and metadata in SQLite, indexes the text in a vector
database, and answers editorial questions grounded in the indexed articles.

Typical flow:

  bylines scrape 56-74-1533        # discover and backfill articles
  bylines sync 56-74-1533          # push article chunks to the vector index
  bylines ask 56-74-1533 "what topics does she cover?"
  bylines serve                    # JSON API for the dashboard`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bylines.yaml)")

	rootCmd.AddCommand(NewScrapeCmd())
	rootCmd.AddCommand(NewSyncCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewStatsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.LogLevel)
}
