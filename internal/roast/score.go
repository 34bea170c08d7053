package roast

// Score bounds for the viability score
const (
	MinScore = 0
	MaxScore = 10
)

// Tier groups viability scores into the three verdict bands
type Tier int

const (
	// TierKill covers scores up to 3
	TierKill Tier = iota
	// TierFlawed covers scores 4 to 6
	TierFlawed
	// TierPromising covers scores from 7
	TierPromising
)

// String returns the tier name
func (t Tier) String() string {
	switch t {
	case TierKill:
		return "kill"
	case TierFlawed:
		return "flawed"
	case TierPromising:
		return "promising"
	default:
		return "unknown"
	}
}

// ClampScore clamps n into [MinScore, MaxScore]
func ClampScore(n int) int {
	return min(MaxScore, max(MinScore, n))
}

// ScoreTier returns the verdict band for score
func ScoreTier(score int) Tier {
	switch {
	case score <= 3:
		return TierKill
	case score <= 6:
		return TierFlawed
	default:
		return TierPromising
	}
}

// ScoreLabel returns the report headline for score
func ScoreLabel(score int) string {
	switch {
	case score <= 2:
		return "DEAD ON ARRIVAL"
	case score <= 4:
		return "CRITICAL"
	case score <= 6:
		return "STRUGGLING"
	case score <= 8:
		return "VIABLE"
	default:
		return "PROMISING"
	}
}

// IsHighRisk reports whether a probability tier is High or Certain
func IsHighRisk(probability string) bool {
	return probability == "High" || probability == "Certain"
}
