package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/PitchRoast/internal/roast"
)

// Report is everything a rendered roast report can show
type Report struct {
	Pitch       string
	Result      *roast.AnalysisResult
	Transcript  []roast.ChatMessage
	GeneratedAt time.Time
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns the formatter for a format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text, markdown or json)", format)
	}
}
