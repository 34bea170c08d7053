package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a filled gauge
type ProgressBar struct {
	Width   int
	Current int
	Total   int
	Label   string
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{Width: width}
}

// SetProgress updates the progress
func (p *ProgressBar) SetProgress(current, total int) {
	p.Current = current
	p.Total = total
}

// SetLabel sets the progress label
func (p *ProgressBar) SetLabel(label string) {
	p.Label = label
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	// Styles are local to avoid an import cycle with ui
	progressStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(bodyColor)

	percentage := 0.0
	if p.Total > 0 {
		percentage = min(1.0, max(0.0, float64(p.Current)/float64(p.Total)))
	}

	filledWidth := int(float64(p.Width) * percentage)
	bar := progressStyle.Render(strings.Repeat("█", filledWidth)) +
		mutedStyle.Render(strings.Repeat("░", p.Width-filledWidth))

	result := fmt.Sprintf("[%s] %d/%d", bar, p.Current, p.Total)
	if p.Label != "" {
		result = p.Label + " " + result
	}
	return result
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		StartTime: time.Now(),
	}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Restart rewinds the animation and the elapsed clock
func (s *Spinner) Restart() {
	s.Frame = 0
	s.StartTime = time.Now()
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Elapsed returns the time since the spinner last restarted
func (s *Spinner) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	progressStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	spinner := progressStyle.Render(spinnerFrames[s.Frame])

	if s.Label != "" {
		return fmt.Sprintf("%s %s (%s)", spinner, s.Label, formatDuration(s.Elapsed()))
	}
	return spinner
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
