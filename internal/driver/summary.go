package driver

import (
	"fmt"

	"github.com/yildizm/PitchRoast/internal/roast"
)

// FailureMessage is the assistant reply appended when a turn fails
const FailureMessage = "System failure. Even our servers couldn't handle this."

// Log line prefixes shown in the log console
const (
	ErrorPrefix    = "ERROR: "
	CriticalPrefix = "CRITICAL ERROR: "
)

// Summary returns the assistant message announcing a verdict. The framing
// depends only on the score band.
func Summary(v roast.Verdict) string {
	score := v.ViabilityScore

	switch roast.ScoreTier(score) {
	case roast.TierKill:
		return fmt.Sprintf("Your idea scored %d/10. In short: \"%s\" Check the Dashboard for the full breakdown. "+
			"Try to defend your idea - maybe you can improve that score.", score, v.KillReason)
	case roast.TierFlawed:
		return fmt.Sprintf("Interesting. Your idea scored %d/10. \"%s\" There's potential here, but you'll need to "+
			"address the flaws. Check the Dashboard for details, then come back and convince me.", score, v.KillReason)
	default:
		return fmt.Sprintf("Not bad. %d/10. \"%s\" You've got something, but don't get cocky. "+
			"Review the Dashboard and let's see if you can push higher.", score, v.KillReason)
	}
}
