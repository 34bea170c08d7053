package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"github.com/yildizm/PitchRoast/internal/client"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Log     LogConfig    `yaml:"log" json:"log"`
}

// APIConfig configures the analysis service connection
type APIConfig struct {
	// Base URL of the analysis service
	BaseURL string `yaml:"base_url" json:"base_url" validate:"required"`
	// Bound on connecting and waiting for response headers
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	// Roast intensity sent with every pitch
	Intensity string `yaml:"intensity" json:"intensity" validate:"oneof=Normal Brutal"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"`     // text|markdown|json
	ColorMode       string `yaml:"color_mode" json:"color_mode"`             // auto|always|never
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"` // log console time format
	Theme           string `yaml:"theme" json:"theme"`                       // default|high-contrast|minimal
	NoEmoji         bool   `yaml:"no_emoji" json:"no_emoji"`
}

// LogConfig configures the developer log
type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	// File receives logs in JSON. Required for logs to survive the TUI.
	File string `yaml:"file" json:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			Intensity: client.IntensityNormal,
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			TimestampFormat: "15:04:05",
			Theme:           "default",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ClientConfig converts the api section into a transport configuration
func (c *Config) ClientConfig(userAgent string) *client.Config {
	return &client.Config{
		BaseURL:   c.API.BaseURL,
		Timeout:   c.API.Timeout,
		Intensity: c.API.Intensity,
		UserAgent: userAgent,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return oops.Errorf("failed to validate config: %w", err)
	}

	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateAPIConfig validates the service URL beyond what struct tags express
func (c *Config) validateAPIConfig() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url scheme: %s (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
