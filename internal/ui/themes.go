package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
}

// buildTheme creates a theme from [light, dark] pairs
func buildTheme(name string, primary, accent, success, warning, errorColor, info, border, muted [2]string) Theme {
	color := func(c [2]string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: c[0], Dark: c[1]}
	}
	return Theme{
		Name:    name,
		Primary: color(primary),
		Accent:  color(accent),
		Success: color(success),
		Warning: color(warning),
		Error:   color(errorColor),
		Info:    color(info),
		Border:  color(border),
		Muted:   color(muted),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#C2410C", "#FB923C"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#CA8A04", "#FACC15"},
		[2]string{"#DC2626", "#EF4444"}, [2]string{"#0891B2", "#22D3EE"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFFF00"},
		[2]string{"#CC0000", "#FF4444"}, [2]string{"#0066CC", "#00FFFF"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#444444", "#BBBBBB"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"},
		[2]string{"#C53030", "#FC8181"}, [2]string{"#2B6CB0", "#63B3ED"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"})
)

// Current active theme
var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// GetStyles builds the chat styles from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		// Header status
		Ready: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Busy: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Score: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		// Chat
		UserName: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		AnalystName: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		UserBubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		AnalystBubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		InputDisabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Muted).
			Foreground(theme.Muted).
			Padding(0, 1),

		// Log console
		LogPanel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		LogTime: lipgloss.NewStyle().
			Foreground(theme.Muted),

		LogError: lipgloss.NewStyle().
			Foreground(theme.Error),

		LogStep: lipgloss.NewStyle().
			Foreground(theme.Info),

		LogRound: lipgloss.NewStyle().
			Foreground(theme.Warning),

		LogInfo: lipgloss.NewStyle().
			Foreground(theme.Success),

		// Dashboard
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title lipgloss.Style
	Muted lipgloss.Style

	Ready lipgloss.Style
	Busy  lipgloss.Style
	Score lipgloss.Style

	UserName      lipgloss.Style
	AnalystName   lipgloss.Style
	UserBubble    lipgloss.Style
	AnalystBubble lipgloss.Style
	Input         lipgloss.Style
	InputDisabled lipgloss.Style

	LogPanel lipgloss.Style
	LogTime  lipgloss.Style
	LogError lipgloss.Style
	LogStep  lipgloss.Style
	LogRound lipgloss.Style
	LogInfo  lipgloss.Style

	Box   lipgloss.Style
	Error lipgloss.Style
}
