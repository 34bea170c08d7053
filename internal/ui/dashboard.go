package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/PitchRoast/internal/formatter"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/PitchRoast/internal/ui/components"
)

// renderDashboard renders the headline cards and the full report
func (m *ChatModel) renderDashboard() string {
	result := m.store.Result()
	if result == nil {
		return m.styles.Muted.Render("No analysis yet")
	}

	gauge := components.NewProgressBar(30)
	gauge.SetLabel("Viability")
	gauge.SetProgress(m.store.Score(), roast.MaxScore)

	report, err := formatter.NewTerminal(!IsColorDisabled()).Format(&formatter.Report{Result: result})
	detail := string(report)
	if err != nil {
		detail = m.styles.Error.Render(err.Error())
	}

	stats := components.CreateRoastStats(result)
	stats.SetCardSize(max(18, m.contentWidth()/4-2), 4)

	verdict := components.NewSummaryBox("Verdict", max(30, m.contentWidth()-4))
	verdict.AddKeyValue("Final verdict", result.Verdict.FinalVerdict)
	if result.Verdict.KillReason != "" {
		verdict.AddKeyValue("Kill reason", result.Verdict.KillReason)
	}
	if len(result.Verdict.RankedFatalFlaws) > 0 {
		verdict.AddKeyValue("Top flaw", result.Verdict.RankedFatalFlaws[0])
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		stats.Render(),
		"",
		gauge.Render(),
		"",
		verdict.Render(),
		"",
		strings.TrimRight(detail, "\n"),
	)

	height := 0
	if m.height > 0 {
		height = max(3, m.height-4)
	}
	return m.window(content, height)
}
