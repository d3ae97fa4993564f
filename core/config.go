// Package core holds configuration and small shared atoms for the
// pngsplice CLI: config loading (yaml file + environment overrides),
// exit codes, and per-invocation operation IDs.
package core

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the yaml config file looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = "pngsplice.yaml"

// Config holds all tool-level settings. Operation inputs (files, target
// dimensions) come from the command line, not from here.
type Config struct {
	// DevMode switches logging to human-readable console output at debug level.
	DevMode bool `yaml:"dev_mode"`

	// LogFile is the path of the rotating log file.
	LogFile string `yaml:"log_file"`

	// LogMaxSizeMB is the log size threshold before rotation.
	LogMaxSizeMB int `yaml:"log_max_size_mb"`

	// OutputSuffix is appended to the input file's stem when a command is
	// run without an explicit output path.
	OutputSuffix string `yaml:"output_suffix"`

	// ResampleFilter selects the interpolation kernel for pixel resizes
	// (catmullrom, bilinear, nearest).
	ResampleFilter string `yaml:"resample_filter"`
}

// DefaultConfig returns the built-in defaults.
// This is a pure function with no side effects.
func DefaultConfig() Config {
	return Config{
		DevMode:        false,
		LogFile:        "pngsplice.log",
		LogMaxSizeMB:   20,
		OutputSuffix:   "_edited",
		ResampleFilter: "catmullrom",
	}
}

// LoadConfig builds the effective configuration in three layers:
// built-in defaults, then the yaml config file (if present), then
// environment variable overrides. A missing config file is not an error;
// an unreadable or malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults and env only.
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.DevMode = ParseBoolEnv("PNGSPLICE_DEV_MODE", cfg.DevMode)
	cfg.LogFile = GetEnvOrDefault("PNGSPLICE_LOG_FILE", cfg.LogFile)
	cfg.LogMaxSizeMB = ParseIntEnv("PNGSPLICE_LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	cfg.OutputSuffix = GetEnvOrDefault("PNGSPLICE_OUTPUT_SUFFIX", cfg.OutputSuffix)
	cfg.ResampleFilter = GetEnvOrDefault("PNGSPLICE_RESAMPLE_FILTER", cfg.ResampleFilter)
	return cfg, nil
}
