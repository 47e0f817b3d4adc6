// =============================================================================
// ABN Bulk Lookup - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Settings come from three
// layers, later layers winning:
//
//   1. Built-in defaults (applyDefaults)
//   2. config.yaml (optional; a missing default file is not an error)
//   3. Environment variables, after loading a .env file if present
//
// The ABR API key is only ever taken from the environment (ABN_API_KEY) or
// from the --api-key flag / form input. It is never read from or written to
// config.yaml.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abr"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// ABR SERVICE
	// =========================================================================

	// APIKey is the ABR web services authentication GUID.
	APIKey string `yaml:"-" env:"ABN_API_KEY"`

	// Endpoint is the ABR "search by ABN" method URL.
	// Default: abr.DefaultEndpoint
	Endpoint string `yaml:"endpoint" env:"ABN_ENDPOINT"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the number of concurrent fetches in a batch.
	// 0 sizes the pool from the number of CPUs.
	MaxConcurrency int `yaml:"max_concurrency" env:"ABN_MAX_CONCURRENCY"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where suggested export file names are placed.
	// Default: "."
	OutputDir string `yaml:"output_dir" env:"ABN_OUTPUT_DIR"`

	// OutputNameFormat is the suggested export file name.
	// Placeholders:
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {uuid}      - A random UUID
	// Default: "abn_details_{timestamp}.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// MissingSuffix is inserted before the extension of the export path to
	// name the missing-ABN workbook.
	// Default: "_missing"
	MissingSuffix string `yaml:"missing_suffix"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the log destination. Empty logs to stderr.
	LogFile string `yaml:"log_file" env:"ABN_LOG_FILE"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" env:"ABN_LOG_LEVEL"`

	// FormLogFile is used instead of stderr while the terminal form owns
	// the screen.
	// Default: "abnlookup.log"
	FormLogFile string `yaml:"form_log_file"`

	// EnvFile is the dotenv file loaded before reading the environment.
	// Default: ".env"
	EnvFile string `yaml:"env_file"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A missing file is
//     tolerated only when it is DefaultPath.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == DefaultPath:
		// Running without a config file is the common case.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with only the built-in defaults applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = abr.DefaultEndpoint
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "abn_details_{timestamp}.xlsx"
	}
	if cfg.MissingSuffix == "" {
		cfg.MissingSuffix = "_missing"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FormLogFile == "" {
		cfg.FormLogFile = "abnlookup.log"
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = ".env"
	}
}

// validate checks values that would otherwise fail much later.
func validate(cfg *Config) error {
	if cfg.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", cfg.MaxConcurrency)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}
