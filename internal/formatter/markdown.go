package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/PitchRoast/internal/roast"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, errNoResult
	}
	result := report.Result

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var b strings.Builder

	b.WriteString("# Roast Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	f.writeTableOfContents(&b, report)
	f.writeSummaryTable(&b, report)

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

	if len(report.Transcript) > 0 {
		f.writeTranscript(&b, report.Transcript)
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, report *Report) {
	result := report.Result

	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	if len(result.Assumptions) > 0 {
		b.WriteString("- [Assumptions](#assumptions)\n")
	}
	if len(result.FailureSimulation.Scenarios) > 0 {
		b.WriteString("- [Failure Simulation](#failure-simulation)\n")
	}
	if len(result.RoastRounds) > 0 {
		b.WriteString("- [Roast Rounds](#roast-rounds)\n")
	}
	b.WriteString("- [Verdict](#verdict)\n")
	if len(report.Transcript) > 0 {
		b.WriteString("- [Conversation](#conversation)\n")
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	result := report.Result
	score := result.Verdict.ViabilityScore

	b.WriteString("## Summary\n\n")
	if report.Pitch != "" {
		fmt.Fprintf(b, "> %s\n\n", strings.ReplaceAll(report.Pitch, "\n", "\n> "))
	}

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Viability | **%s** |\n", scoreHeadline(score))
	fmt.Fprintf(b, "| Assumptions | %d |\n", len(result.Assumptions))
	fmt.Fprintf(b, "| High-risk scenarios | %d of %d |\n",
		highRiskCount(result.FailureSimulation.Scenarios), len(result.FailureSimulation.Scenarios))
	fmt.Fprintf(b, "| Rounds survived | %d of %d |\n", survivedCount(result.RoastRounds), len(result.RoastRounds))
	if idx := killingRound(result.RoastRounds); idx >= 0 {
		fmt.Fprintf(b, "| Killed in round | %d |\n", result.RoastRounds[idx].RoundNumber)
	}
	b.WriteString("\n")

	if result.Analysis != nil && result.Analysis.Summary != "" {
		b.WriteString(result.Analysis.Summary + "\n\n")
	}
}

func (f *markdownFormatter) writeAssumptions(b *strings.Builder, assumptions []roast.Assumption) {
	b.WriteString("## Assumptions\n\n")
	b.WriteString("| Assumption | Category | Confidence | Why risky |\n")
	b.WriteString("|------------|----------|------------|-----------|\n")
	for _, a := range assumptions {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			escapeCell(a.Description), escapeCell(orDash(a.Category)),
			orDash(a.ConfidenceScore), escapeCell(orDash(a.ReasonRisky)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeScenarios(b *strings.Builder, sim roast.FailureSimulation) {
	b.WriteString("## Failure Simulation\n\n")

	for _, s := range rankedScenarios(sim.Scenarios) {
		marker := ""
		if roast.IsHighRisk(s.Probability) {
			marker = " ⚠️"
		}
		fmt.Fprintf(b, "### %s%s\n\n", s.ScenarioName, marker)
		fmt.Fprintf(b, "- **Probability:** %s\n", orDash(s.Probability))
		fmt.Fprintf(b, "- **Impact:** %s\n", orDash(s.Impact))
		if s.MechanismOfFailure != "" {
			fmt.Fprintf(b, "- **Mechanism:** %s\n", s.MechanismOfFailure)
		}
		if s.Description != "" {
			fmt.Fprintf(b, "\n%s\n", s.Description)
		}
		b.WriteString("\n")
	}

	if sim.ExecutionRiskSummary != "" {
		fmt.Fprintf(b, "**Execution risk:** %s\n\n", sim.ExecutionRiskSummary)
	}
}

func (f *markdownFormatter) writeRounds(b *strings.Builder, rounds []roast.RoastRound) {
	b.WriteString("## Roast Rounds\n\n")

	for _, r := range rounds {
		outcome := "survived"
		if !r.Survived {
			outcome = "killed"
		}
		fmt.Fprintf(b, "### Round %d (%s)\n\n", r.RoundNumber, outcome)
		fmt.Fprintf(b, "- **Market delusions:** %s\n", orDash(r.Critique.MarketDelusions))
		fmt.Fprintf(b, "- **Execution fantasy:** %s\n", orDash(r.Critique.ExecutionFantasy))
		fmt.Fprintf(b, "- **Competitive reality:** %s\n", orDash(r.Critique.CompetitiveReality))
		fmt.Fprintf(b, "- **Timeline lies:** %s\n", orDash(r.Critique.TimelineLies))
		if flaw := r.FatalFlaw(); flaw != "" {
			fmt.Fprintf(b, "- **Fatal flaw:** %s\n", flaw)
		}
		if r.Critique.OverallHarshnessComment != "" {
			fmt.Fprintf(b, "\n_%s_\n", r.Critique.OverallHarshnessComment)
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeVerdict(b *strings.Builder, v roast.Verdict) {
	b.WriteString("## Verdict\n\n")
	fmt.Fprintf(b, "**%s**\n\n", scoreHeadline(v.ViabilityScore))

	if v.KillReason != "" {
		fmt.Fprintf(b, "**Kill reason:** %s\n\n", v.KillReason)
	}
	if v.FinalVerdict != "" {
		b.WriteString(v.FinalVerdict + "\n\n")
	}

	if len(v.RankedFatalFlaws) > 0 {
		b.WriteString("### Ranked Fatal Flaws\n\n")
		for i, flaw := range v.RankedFatalFlaws {
			fmt.Fprintf(b, "%d. %s\n", i+1, flaw)
		}
		b.WriteString("\n")
	}

	if len(v.AssumptionsThatBroke) > 0 {
		b.WriteString("### Assumptions That Broke\n\n")
		for _, a := range v.AssumptionsThatBroke {
			fmt.Fprintf(b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeTranscript(b *strings.Builder, transcript []roast.ChatMessage) {
	b.WriteString("## Conversation\n\n")
	for _, m := range transcript {
		speaker := "Analyst"
		if m.Role == roast.RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(b, "**%s:** %s\n\n", speaker, m.Content)
	}
}

// escapeCell keeps cell text from breaking the table
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
