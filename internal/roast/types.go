package roast

// Role identifies the author of a chat message
type Role string

const (
	// RoleUser marks messages typed by the founder
	RoleUser Role = "user"

	// RoleAssistant marks messages produced by the analyst
	RoleAssistant Role = "assistant"
)

// Kind is the content kind of a chat message. Only text exists today.
type Kind string

// KindText is plain text content
const KindText Kind = "text"

// ChatMessage is one entry of the conversation transcript
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Kind    Kind   `json:"type"`
}

// UserMessage builds a text message authored by the user
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content, Kind: KindText}
}

// AssistantMessage builds a text message authored by the analyst
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content, Kind: KindText}
}

// IsStreamTarget reports whether streamed chunks may be appended to m
func (m ChatMessage) IsStreamTarget() bool {
	return m.Role == RoleAssistant && m.Kind == KindText
}

// AnalysisResult is the full critique document produced by the analysis service
type AnalysisResult struct {
	// Analysis is the decomposition of the pitch, when the service sends it
	Analysis *PitchAnalysis `json:"analysis,omitempty"`

	// Assumptions are the hidden risks extracted from the pitch
	Assumptions []Assumption `json:"assumptions" validate:"dive"`

	// FailureSimulation holds the simulated ways the startup dies
	FailureSimulation FailureSimulation `json:"failure_simulation"`

	// RoastRounds are the adversarial critique rounds in order
	RoastRounds []RoastRound `json:"roast_rounds" validate:"dive"`

	// Verdict is the final judgement
	Verdict Verdict `json:"verdict"`
}

// PitchAnalysis is the structured decomposition of a pitch
type PitchAnalysis struct {
	Summary              string   `json:"summary"`
	ProblemStatement     string   `json:"problem_statement"`
	TargetCustomer       string   `json:"target_customer"`
	ValueProposition     string   `json:"value_proposition"`
	MarketSizeAssumption string   `json:"market_size_assumptions"`
	DistributionStrategy string   `json:"distribution_strategy"`
	CompetitiveMoat      string   `json:"competitive_moat"`
	ExecutionTimeline    string   `json:"execution_timeline"`
	FounderAssumptions   []string `json:"founder_assumptions"`
	MissingInfo          []string `json:"missing_info"`
	IsVague              bool     `json:"is_vague"`
}

// Assumption is a risky belief the pitch depends on
type Assumption struct {
	Description     string `json:"description" validate:"required"`
	Category        string `json:"category"`
	ConfidenceScore string `json:"confidence_score" validate:"omitempty,oneof=Low Medium High"`
	ReasonRisky     string `json:"reason_risky"`
}

// FailureSimulation groups the simulated failure scenarios
type FailureSimulation struct {
	Scenarios            []FailureScenario `json:"scenarios" validate:"dive"`
	ExecutionRiskSummary string            `json:"execution_risk_summary,omitempty"`
}

// FailureScenario describes one way the startup fails
type FailureScenario struct {
	ScenarioName       string `json:"scenario_name" validate:"required"`
	Description        string `json:"description"`
	Probability        string `json:"probability" validate:"omitempty,oneof=Low Medium High Certain"`
	Impact             string `json:"impact" validate:"omitempty,oneof=Minor Major Fatal"`
	MechanismOfFailure string `json:"mechanism_of_failure"`
}

// Critique holds the four fixed facets of a roast round
type Critique struct {
	MarketDelusions         string `json:"market_delusions"`
	ExecutionFantasy        string `json:"execution_fantasy"`
	CompetitiveReality      string `json:"competitive_reality"`
	TimelineLies            string `json:"timeline_lies"`
	OverallHarshnessComment string `json:"overall_harshness_comment"`
}

// RoastRound is one cycle of adversarial critique
type RoastRound struct {
	RoundNumber    int      `json:"round_number" validate:"gte=0"`
	Critique       Critique `json:"critique"`
	Survived       bool     `json:"survived"`
	FatalFlawFound *string  `json:"fatal_flaw_found,omitempty"`
}

// FatalFlaw returns the kill shot of the round, if any
func (r RoastRound) FatalFlaw() string {
	if r.FatalFlawFound == nil {
		return ""
	}
	return *r.FatalFlawFound
}

// Verdict is the final judgement on the pitch
type Verdict struct {
	FinalVerdict         string   `json:"final_verdict"`
	RankedFatalFlaws     []string `json:"ranked_fatal_flaws"`
	AssumptionsThatBroke []string `json:"assumptions_that_broke"`
	KillReason           string   `json:"kill_reason"`
	ViabilityScore       int      `json:"viability_score" validate:"gte=0,lte=10"`
}

// Clone returns a deep copy of the result
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}

	c := *r
	if r.Analysis != nil {
		a := *r.Analysis
		a.FounderAssumptions = append([]string(nil), r.Analysis.FounderAssumptions...)
		a.MissingInfo = append([]string(nil), r.Analysis.MissingInfo...)
		c.Analysis = &a
	}
	c.Assumptions = append([]Assumption(nil), r.Assumptions...)
	c.FailureSimulation.Scenarios = append([]FailureScenario(nil), r.FailureSimulation.Scenarios...)
	c.RoastRounds = make([]RoastRound, len(r.RoastRounds))
	for i, round := range r.RoastRounds {
		if round.FatalFlawFound != nil {
			flaw := *round.FatalFlawFound
			round.FatalFlawFound = &flaw
		}
		c.RoastRounds[i] = round
	}
	if r.RoastRounds == nil {
		c.RoastRounds = nil
	}
	c.Verdict.RankedFatalFlaws = append([]string(nil), r.Verdict.RankedFatalFlaws...)
	c.Verdict.AssumptionsThatBroke = append([]string(nil), r.Verdict.AssumptionsThatBroke...)
	return &c
}
