package config

import (
	"os"
	"strconv"

	"wasmbench/internal/errors"

	"github.com/joho/godotenv"
)

// DefaultDataFile is the benchmark results table read when none is given
const DefaultDataFile = "../results/42674c1_win11_i713700KF_4080super.csv"

// DefaultOutputFile is the name of the generated report
const DefaultOutputFile = "plots.pdf"

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Report ReportConfig
	Log    LogConfig
}

// DataConfig holds input settings
type DataConfig struct {
	InputFile string
	// AnalysisFile is an optional YAML file overriding the analysis plan
	AnalysisFile string
}

// ReportConfig holds output settings
type ReportConfig struct {
	OutputFile string
	// ContinueOnError skips a response whose model cannot be fitted
	ContinueOnError bool
	// KeepPartial writes the pages rendered so far when a run fails
	KeepPartial bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	// A missing .env is the normal case
	_ = godotenv.Load()

	config := &Config{
		Data: DataConfig{
			InputFile:    getEnvOrDefault("DATA_CSV", DefaultDataFile),
			AnalysisFile: getEnvOrDefault("ANALYSIS_CONFIG", ""),
		},
		Report: ReportConfig{
			OutputFile:      getEnvOrDefault("REPORT_OUTPUT", DefaultOutputFile),
			ContinueOnError: getEnvBoolOrDefault("CONTINUE_ON_ERROR", false),
			KeepPartial:     getEnvBoolOrDefault("KEEP_PARTIAL", false),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.InputFile == "" {
		return errors.ConfigInvalid("input file is required")
	}
	if config.Report.OutputFile == "" {
		return errors.ConfigInvalid("output file is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
