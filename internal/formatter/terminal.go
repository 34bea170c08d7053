package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/PitchRoast/internal/emoji"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, errNoResult
	}
	result := report.Result

	var b strings.Builder

	f.writeHeader(&b)
	f.writeScore(&b, result.Verdict)

	if result.Analysis != nil && result.Analysis.Summary != "" {
		fmt.Fprintf(&b, "%s Pitch\n%s\n\n", emoji.GetEmoji("rocket"), result.Analysis.Summary)
	}

	if len(result.Assumptions) > 0 {
		f.writeAssumptions(&b, result.Assumptions)
	}
	if len(result.FailureSimulation.Scenarios) > 0 {
		f.writeScenarios(&b, result.FailureSimulation)
	}
	if len(result.RoastRounds) > 0 {
		f.writeRounds(&b, result.RoastRounds)
	}

	f.writeVerdict(&b, result.Verdict)

	return []byte(b.String()), nil
}

// writeHeader writes the boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Roast Report"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeScore(b *strings.Builder, v roast.Verdict) {
	symbol := emoji.GetEmoji("score")
	if roast.ScoreTier(v.ViabilityScore) == roast.TierKill {
		symbol = emoji.GetEmoji("skull")
	}
	fmt.Fprintf(b, "%s Viability %s\n", symbol, scoreHeadline(v.ViabilityScore))
	b.WriteString(scoreBar(v.ViabilityScore, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeAssumptions(b *strings.Builder, assumptions []roast.Assumption) {
	fmt.Fprintf(b, "%s Assumptions (%d)\n", emoji.GetEmoji("assumption"), len(assumptions))

	items := make([]termfmt.TreeItem, 0, len(assumptions))
	for i, a := range assumptions {
		var children []termfmt.TreeItem
		if a.ReasonRisky != "" {
			children = append(children, termfmt.TreeItem{Label: "Why risky", Value: a.ReasonRisky})
		}
		items = append(items, termfmt.TreeItem{
			Label:    a.Description,
			Value:    fmt.Sprintf("[%s, %s confidence]", orDash(a.Category), orDash(a.ConfidenceScore)),
			Children: children,
			Last:     i == len(assumptions)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeScenarios(b *strings.Builder, sim roast.FailureSimulation) {
	scenarios := rankedScenarios(sim.Scenarios)
	fmt.Fprintf(b, "%s Failure Simulation (%d high risk)\n", emoji.GetEmoji("failure"), highRiskCount(scenarios))

	items := make([]termfmt.TreeItem, 0, len(scenarios))
	for i, s := range scenarios {
		var children []termfmt.TreeItem
		if s.Description != "" {
			children = append(children, termfmt.TreeItem{Label: "What happens", Value: s.Description})
		}
		if s.MechanismOfFailure != "" {
			children = append(children, termfmt.TreeItem{Label: "Mechanism", Value: s.MechanismOfFailure})
		}
		items = append(items, termfmt.TreeItem{
			Label:    s.ScenarioName,
			Value:    fmt.Sprintf("(%s probability, %s impact)", orDash(s.Probability), orDash(s.Impact)),
			Children: children,
			Last:     i == len(scenarios)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	if sim.ExecutionRiskSummary != "" {
		b.WriteString("Execution risk: " + sim.ExecutionRiskSummary + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeRounds(b *strings.Builder, rounds []roast.RoastRound) {
	fmt.Fprintf(b, "%s Roast Rounds (survived %d/%d)\n", emoji.GetEmoji("round"), survivedCount(rounds), len(rounds))

	items := make([]termfmt.TreeItem, 0, len(rounds))
	for i, r := range rounds {
		status := emoji.GetEmoji("survived") + " survived"
		if !r.Survived {
			status = emoji.GetEmoji("skull") + " killed"
		}

		children := []termfmt.TreeItem{
			{Label: "Market delusions", Value: orDash(r.Critique.MarketDelusions)},
			{Label: "Execution fantasy", Value: orDash(r.Critique.ExecutionFantasy)},
			{Label: "Competitive reality", Value: orDash(r.Critique.CompetitiveReality)},
			{Label: "Timeline lies", Value: orDash(r.Critique.TimelineLies)},
		}
		if r.Critique.OverallHarshnessComment != "" {
			children = append(children, termfmt.TreeItem{Label: "Bottom line", Value: r.Critique.OverallHarshnessComment})
		}
		if flaw := r.FatalFlaw(); flaw != "" {
			children = append(children, termfmt.TreeItem{Label: "Fatal flaw", Value: flaw})
		}
		children[len(children)-1].Last = true

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("Round %d", r.RoundNumber),
			Value:    status,
			Children: children,
			Last:     i == len(rounds)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeVerdict(b *strings.Builder, v roast.Verdict) {
	fmt.Fprintf(b, "%s Verdict\n", emoji.GetEmoji("verdict"))

	items := []termfmt.TreeItem{
		{Label: "Kill reason", Value: orDash(v.KillReason)},
		{Label: "Final verdict", Value: orDash(v.FinalVerdict)},
	}
	if len(v.AssumptionsThatBroke) > 0 {
		items = append(items, termfmt.TreeItem{Label: "Assumptions that broke", Value: strings.Join(v.AssumptionsThatBroke, "; ")})
	}
	items[len(items)-1].Last = true
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")

	if len(v.RankedFatalFlaws) > 0 {
		fmt.Fprintf(b, "\n%s Fatal flaws\n", emoji.GetEmoji("flaw"))
		for i, flaw := range v.RankedFatalFlaws {
			fmt.Fprintf(b, "%d. %s\n", i+1, flaw)
		}
	}
}
