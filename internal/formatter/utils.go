package formatter

import (
	"errors"
	"fmt"

	"github.com/elliotchance/pie/v2"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/go-termfmt"
)

var errNoResult = errors.New("report has no analysis result")

var probabilityRank = map[string]int{"Certain": 4, "High": 3, "Medium": 2, "Low": 1}

var impactRank = map[string]int{"Fatal": 3, "Major": 2, "Minor": 1}

// rankedScenarios returns scenarios ordered by probability then impact
func rankedScenarios(scenarios []roast.FailureScenario) []roast.FailureScenario {
	return pie.SortStableUsing(append([]roast.FailureScenario(nil), scenarios...), func(a, b roast.FailureScenario) bool {
		if probabilityRank[a.Probability] != probabilityRank[b.Probability] {
			return probabilityRank[a.Probability] > probabilityRank[b.Probability]
		}
		return impactRank[a.Impact] > impactRank[b.Impact]
	})
}

// highRiskCount counts scenarios with High or Certain probability
func highRiskCount(scenarios []roast.FailureScenario) int {
	return len(pie.Filter(scenarios, func(s roast.FailureScenario) bool {
		return roast.IsHighRisk(s.Probability)
	}))
}

// survivedCount counts roast rounds the idea survived
func survivedCount(rounds []roast.RoastRound) int {
	return len(pie.Filter(rounds, func(r roast.RoastRound) bool { return r.Survived }))
}

// killingRound returns the first round that found a fatal flaw, or -1
func killingRound(rounds []roast.RoastRound) int {
	return pie.FindFirstUsing(rounds, func(r roast.RoastRound) bool { return r.FatalFlaw() != "" })
}

// scoreBar renders the viability score as a bar using go-termfmt
func scoreBar(score int, opts *termfmt.TerminalOptions) string {
	return termfmt.CreateConfidenceBar(float64(roast.ClampScore(score))/float64(roast.MaxScore), opts)
}

// scoreHeadline is the score with its label, e.g. "2/10 DEAD ON ARRIVAL"
func scoreHeadline(score int) string {
	return fmt.Sprintf("%d/10 %s", score, roast.ScoreLabel(score))
}

// orDash returns s or a dash when s is empty
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
