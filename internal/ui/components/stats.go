package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/elliotchance/pie/v2"
	"github.com/yildizm/PitchRoast/internal/emoji"
	"github.com/yildizm/PitchRoast/internal/roast"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       22,
		Height:      4,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	valueStyle := lipgloss.NewStyle().Foreground(statusColor(s.Status)).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(bodyColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

var (
	successColor = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

func statusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "success":
		return successColor
	case "warning":
		return warningColor
	case "error":
		return errorColor
	case "info":
		return infoColor
	default:
		return bodyColor
	}
}

// StatsDashboard represents a collection of stats cards
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  22,
		cardHeight: 4,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Cards returns the cards in display order
func (d *StatsDashboard) Cards() []*StatsCard {
	return d.cards
}

// SetCardSize sets the default size for all cards
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		rowCards := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateRoastStats creates the headline cards for an analysis result
func CreateRoastStats(result *roast.AnalysisResult) *StatsDashboard {
	dashboard := NewStatsDashboard(4)
	if result == nil {
		return dashboard
	}

	score := result.Verdict.ViabilityScore
	dashboard.AddCard(NewStatsCard(
		"Viability",
		fmt.Sprintf("%d/%d", score, roast.MaxScore),
		roast.ScoreLabel(score),
	).SetIcon(emoji.GetEmoji("score")).SetStatus(tierStatus(roast.ScoreTier(score))))

	dashboard.AddCard(NewStatsCard(
		"Assumptions",
		strconv.Itoa(len(result.Assumptions)),
		"Hidden risks found",
	).SetIcon(emoji.GetEmoji("assumption")).SetStatus("info"))

	scenarios := result.FailureSimulation.Scenarios
	highRisk := len(pie.Filter(scenarios, func(s roast.FailureScenario) bool {
		return roast.IsHighRisk(s.Probability)
	}))
	riskStatus := "success"
	if highRisk > 0 {
		riskStatus = "error"
	}
	dashboard.AddCard(NewStatsCard(
		"High Risk",
		strconv.Itoa(highRisk),
		fmt.Sprintf("of %d scenarios", len(scenarios)),
	).SetIcon(emoji.GetEmoji("failure")).SetStatus(riskStatus))

	survived := len(pie.Filter(result.RoastRounds, func(r roast.RoastRound) bool { return r.Survived }))
	roundStatus := "warning"
	switch {
	case len(result.RoastRounds) > 0 && survived == len(result.RoastRounds):
		roundStatus = "success"
	case survived == 0:
		roundStatus = "error"
	}
	dashboard.AddCard(NewStatsCard(
		"Survived",
		fmt.Sprintf("%d/%d", survived, len(result.RoastRounds)),
		"Roast rounds",
	).SetIcon(emoji.GetEmoji("round")).SetStatus(roundStatus))

	return dashboard
}

func tierStatus(t roast.Tier) string {
	switch t {
	case roast.TierKill:
		return "error"
	case roast.TierFlawed:
		return "warning"
	default:
		return "success"
	}
}

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(bodyColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	return boxStyle.Width(s.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}
