package client

import (
	"net/url"
	"time"
)

// Intensity levels accepted by the analysis service
const (
	IntensityNormal = "Normal"
	IntensityBrutal = "Brutal"
)

// Config holds the analysis service connection settings
type Config struct {
	// BaseURL is the analysis service endpoint
	BaseURL string `json:"base_url"`

	// Timeout bounds connecting and waiting for response headers. The body
	// itself is streamed without a deadline.
	Timeout time.Duration `json:"timeout"`

	// Intensity is sent with every initial analysis
	Intensity string `json:"intensity"`

	// UserAgent is sent with every request
	UserAgent string `json:"user_agent,omitempty"`
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "http://localhost:8000",
		Timeout:   30 * time.Second,
		Intensity: IntensityNormal,
		UserAgent: "pitchroast",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewConfigurationError("base_url", "base URL is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return NewConfigurationError("base_url", "invalid base URL: "+err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewConfigurationError("base_url", "base URL must use http or https")
	}
	if u.Host == "" {
		return NewConfigurationError("base_url", "base URL must include a host")
	}

	if c.Timeout <= 0 {
		return NewConfigurationError("timeout", "timeout must be positive")
	}

	if c.Intensity != IntensityNormal && c.Intensity != IntensityBrutal {
		return NewConfigurationError("intensity", "intensity must be Normal or Brutal")
	}

	return nil
}
