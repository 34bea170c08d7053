package config

// SampleConfig returns a documented configuration file with every option
func SampleConfig() string {
	return `# PitchRoast configuration
version: "1.0"

api:
  # Analysis service endpoint. PITCHROAST_API_URL or NEXT_PUBLIC_API_URL
  # override it, and both can be set in a .env file.
  base_url: "http://localhost:8000"
  # Bound on connecting and waiting for the first response byte.
  # Streaming itself has no deadline.
  timeout: 30s
  # Normal or Brutal
  intensity: "Normal"

output:
  # Report format for non-interactive runs: text, markdown or json
  default_format: "text"
  # auto, always or never
  color_mode: "auto"
  # Go time layout for log console timestamps
  timestamp_format: "15:04:05"
  # default, high-contrast or minimal
  theme: "default"
  no_emoji: false

log:
  # debug, info, warn or error
  level: "warn"
  # JSON log file. The interactive chat only logs here.
  file: ""
`
}

// MinimalSampleConfig returns a configuration file with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
api:
  base_url: "http://localhost:8000"
`
}
