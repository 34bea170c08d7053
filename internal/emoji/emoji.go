package emoji

import "strings"

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"fire":       {"🔥", "[ROAST]"},
	"skull":      {"💀", "[DEAD]"},
	"score":      {"📊", "[SCORE]"},
	"assumption": {"🧱", "[ASM]"},
	"failure":    {"💥", "[FAIL]"},
	"round":      {"🥊", "[RND]"},
	"verdict":    {"⚖️", "[VERDICT]"},
	"flaw":       {"🎯", "[FLAW]"},
	"survived":   {"🛡️", "[SURVIVED]"},
	"user":       {"🧑", "[YOU]"},
	"analyst":    {"🤖", "[AI]"},
	"rocket":     {"🚀", "[GO]"},
	"door":       {"🚪", "[EXIT]"},
	"help":       {"❓", "[?]"},

	// Log console markers
	"log_error": {"✕", "x"},
	"log_step":  {"▸", ">"},
	"log_round": {"◆", "*"},
	"log_info":  {"○", "o"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// LogKind classifies a log console line for its marker and color
type LogKind int

const (
	LogInfo LogKind = iota
	LogError
	LogStep
	LogRound
)

// ClassifyLog inspects a server log line. Errors win over steps and rounds.
func ClassifyLog(line string) LogKind {
	switch {
	case strings.Contains(line, "ERROR"), strings.Contains(line, "CRITICAL"):
		return LogError
	case strings.Contains(line, "Step"):
		return LogStep
	case strings.Contains(line, "Round"):
		return LogRound
	default:
		return LogInfo
	}
}

// LogSymbol returns the marker for a log kind
func LogSymbol(kind LogKind) string {
	switch kind {
	case LogError:
		return GetEmoji("log_error")
	case LogStep:
		return GetEmoji("log_step")
	case LogRound:
		return GetEmoji("log_round")
	default:
		return GetEmoji("log_info")
	}
}
