// =============================================================================
// ABN Bulk Lookup - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (abnlookup)
//   ├── lookupCmd   (abnlookup lookup)
//   ├── exportCmd   (abnlookup export)
//   ├── validateCmd (abnlookup validate)
//   ├── formCmd     (abnlookup form)
//   └── versionCmd  (abnlookup version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --api-key)
//   2. Loading the configuration file and environment
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/InfinityHack3r/abnBulkLookup/internal/config"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// apiKeyFlag overrides the API key from the environment.
var apiKeyFlag string

// cfg is the configuration loaded before any subcommand runs.
var cfg *config.Config

// errNoAPIKey is returned by commands that need to reach the register.
var errNoAPIKey = errors.New("no API key: set ABN_API_KEY or pass --api-key")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "abnlookup",
	Short: "ABN Bulk Lookup - Fetch Australian Business Register details in bulk",
	Long: `ABN Bulk Lookup queries the Australian Business Register web service for
one or many ABNs and saves the results to an Excel workbook.

Key Features:
  - Single ABN lookups printed to the terminal
  - Concurrent batch lookups with live progress
  - Excel export with ABR, ASIC and ACNC links
  - A separate workbook listing ABNs that could not be retrieved
  - An interactive terminal form

Example Usage:
  abnlookup lookup 51824753556            # Look up one ABN
  abnlookup export --file abns.txt        # Export every ABN in a file
  abnlookup validate --file abns.csv      # Check ABNs without going online
  abnlookup form                          # Open the interactive form`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --api-key flag: Overrides ABN_API_KEY.
	rootCmd.PersistentFlags().StringVar(
		&apiKeyFlag,
		"api-key",
		"",
		"ABR authentication GUID (overrides ABN_API_KEY)",
	)
}

// initConfig loads the configuration and sets up logging.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if key := strings.TrimSpace(apiKeyFlag); key != "" {
		loaded.APIKey = key
	}
	cfg = loaded

	return setupLogger(cfg.LogFile)
}

// setupLogger builds the global logger, writing to file when set.
func setupLogger(file string) error {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.Setup(logger.Options{Level: level, File: file})
}
