// Package main provides the pharmagraph CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	logLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pharmagraph",
	Short: "Build a journal graph of drug mentions in publications",
	Long: `pharmagraph reads drug lists and publication exports (PubMed, clinical
trials), finds which publication titles mention which drugs, and writes a
journal-centric JSON graph of those mentions.

Input and output locations come from a YAML config file (default
config.yaml), overridable with PHARMAGRAPH_* environment variables or a .env
file. All commands output JSON by default; use --human for plain text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (ignore error if not found)
		_ = godotenv.Load()
		configPath = config.Resolve(configPath, cmd.Flags().Changed("config"))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to the YAML config file (falls back to the per-user config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration from --config and the environment,
// exits on error. A missing file is tolerated when the environment supplies
// the values.
func mustLoadConfig() *config.Config {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustNewLogger builds the stderr logger, exits on an invalid level.
func mustNewLogger(cfg *config.Config) *log.Logger {
	level := logLevel
	if level == "" && cfg != nil {
		level = cfg.LogLevel
	}
	logger, err := logging.New(level, os.Stderr)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return logger
}

// configErrorMessage turns a configuration error into an actionable message.
func configErrorMessage(err error) string {
	var mk *config.MissingKeyError
	if errors.As(err, &mk) {
		if _, statErr := os.Stat(config.ExpandPath(configPath)); os.IsNotExist(statErr) {
			return config.HelpfulConfigMessage(configPath)
		}
		return fmt.Sprintf("%v\n\nSet %s in %s.", err, mk.Key, configPath)
	}
	return err.Error()
}
