package stream

import "encoding/json"

// EventType discriminates the events of an analysis stream
type EventType string

const (
	// EventLog carries a progress line for the log console
	EventLog EventType = "log"

	// EventResult carries the full analysis result in Data
	EventResult EventType = "result"

	// EventChunk carries a piece of a streamed assistant answer
	EventChunk EventType = "chunk"

	// EventError carries a server-side failure message
	EventError EventType = "error"
)

// Event is one line of the analysis stream
type Event struct {
	Type    EventType       `json:"type"`
	Message string          `json:"message,omitempty"`
	Content string          `json:"content,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Known reports whether the event type is one the client acts on
func (e Event) Known() bool {
	switch e.Type {
	case EventLog, EventResult, EventChunk, EventError:
		return true
	default:
		return false
	}
}
