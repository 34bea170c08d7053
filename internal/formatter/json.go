package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/PitchRoast/internal/roast"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, errNoResult
	}
	result := report.Result

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	output := &ReportOutput{
		GeneratedAt: generated,
		Pitch:       report.Pitch,
		Summary: &SummaryOutput{
			ViabilityScore:    result.Verdict.ViabilityScore,
			Label:             roast.ScoreLabel(result.Verdict.ViabilityScore),
			Tier:              roast.ScoreTier(result.Verdict.ViabilityScore).String(),
			Assumptions:       len(result.Assumptions),
			Scenarios:         len(result.FailureSimulation.Scenarios),
			HighRiskScenarios: highRiskCount(result.FailureSimulation.Scenarios),
			Rounds:            len(result.RoastRounds),
			RoundsSurvived:    survivedCount(result.RoastRounds),
		},
		Result:     result,
		Transcript: report.Transcript,
	}

	return json.MarshalIndent(output, "", "  ")
}

// ReportOutput is the JSON report document
type ReportOutput struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Pitch       string                `json:"pitch,omitempty"`
	Summary     *SummaryOutput        `json:"summary"`
	Result      *roast.AnalysisResult `json:"result"`
	Transcript  []roast.ChatMessage   `json:"transcript,omitempty"`
}

// SummaryOutput is the headline numbers of a report
type SummaryOutput struct {
	ViabilityScore    int    `json:"viability_score"`
	Label             string `json:"label"`
	Tier              string `json:"tier"`
	Assumptions       int    `json:"assumptions"`
	Scenarios         int    `json:"scenarios"`
	HighRiskScenarios int    `json:"high_risk_scenarios"`
	Rounds            int    `json:"rounds"`
	RoundsSurvived    int    `json:"rounds_survived"`
}
