// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"snapgrab/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagOutput    string
	flagQuality   string
	flagAll       bool
	flagJSON      bool
	flagNoHistory bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "snapgrab [url...]",
	Short: "Download public media from Instagram, Facebook and TikTok",
	Long: `Snapgrab resolves public post URLs into direct media links and
downloads them. Pass one or more post URLs; with --json the resolved
links are printed instead of downloaded.`,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              resolveRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Download directory (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagQuality, "quality", "q", "", "Preferred quality: best | 1080 | 720 | 480 | 360")
	rootCmd.PersistentFlags().BoolVarP(&flagAll, "all", "a", false, "Download every variant without prompting")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print resolved media as JSON instead of downloading")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Skip recording downloads in history")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagOutput != "" {
		cfg.DownloadDir = flagOutput
	}
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		log.SetOutput(os.Stderr)
		log.SetPrefix("[snapgrab] ")
	} else {
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
	}

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}
