package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.pitchroast.yaml",               // Project-specific config (highest priority)
	"~/.config/pitchroast/config.yaml", // User config
	"/etc/pitchroast/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "PITCHROAST_"

// LegacyAPIURLEnv is the variable the web frontend reads its service URL from.
// It is honoured below PITCHROAST_API_URL.
const LegacyAPIURLEnv = "NEXT_PUBLIC_API_URL"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    []string{".env"},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables, including those from ./.env
// 3. ./.pitchroast.yaml
// 4. ~/.config/pitchroast/config.yaml
// 5. /etc/pitchroast/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, oops.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, expandPath(customPath)); err != nil {
			return nil, oops.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so higher ones overwrite
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				slog.Warn("failed to load config file", "path", expandedPath, "error", err)
			}
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, oops.Errorf("failed to load env file: %w", err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, oops.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, oops.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// loadEnvFiles reads dotenv files into the process environment. Variables
// that are already set win over the file.
func (l *Loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		err := godotenv.Load(path)
		if err == nil {
			slog.Debug("loaded env file", "path", path)
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	if v := os.Getenv(LegacyAPIURLEnv); v != "" {
		config.API.BaseURL = v
	}

	envMappings := map[string]func(string) error{
		// API Config
		EnvPrefix + "API_URL":       func(v string) error { config.API.BaseURL = v; return nil },
		EnvPrefix + "API_TIMEOUT":   func(v string) error { return parseDuration(v, &config.API.Timeout) },
		EnvPrefix + "API_INTENSITY": func(v string) error { config.API.Intensity = v; return nil },

		// Output Config
		EnvPrefix + "OUTPUT_DEFAULT_FORMAT":   func(v string) error { config.Output.DefaultFormat = v; return nil },
		EnvPrefix + "OUTPUT_COLOR_MODE":       func(v string) error { config.Output.ColorMode = v; return nil },
		EnvPrefix + "OUTPUT_TIMESTAMP_FORMAT": func(v string) error { config.Output.TimestampFormat = v; return nil },
		EnvPrefix + "OUTPUT_THEME":            func(v string) error { config.Output.Theme = v; return nil },
		EnvPrefix + "OUTPUT_NO_EMOJI":         func(v string) error { return parseBool(v, &config.Output.NoEmoji) },

		// Log Config
		EnvPrefix + "LOG_LEVEL": func(v string) error { config.Log.Level = strings.ToLower(v); return nil },
		EnvPrefix + "LOG_FILE":  func(v string) error { config.Log.File = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(expandPath(cleanPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAPIConfig(&dst.API, &src.API)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeLogConfig(&dst.Log, &src.Log)
}

func mergeAPIConfig(dst, src *APIConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.Intensity != "" {
		dst.Intensity = src.Intensity
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.TimestampFormat != "" {
		dst.TimestampFormat = src.TimestampFormat
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	// NoEmoji defaults to false, so a file can only switch emoji off
	if src.NoEmoji {
		dst.NoEmoji = true
	}
}

func mergeLogConfig(dst, src *LogConfig) {
	if src.Level != "" {
		dst.Level = strings.ToLower(src.Level)
	}
	if src.File != "" {
		dst.File = src.File
	}
}

// Type conversion helpers

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
