package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/yildizm/PitchRoast/internal/roast"
)

// Change identifies which part of the store a mutation touched
type Change int

const (
	ChangeMessages Change = iota
	ChangeLogs
	ChangeResult
	ChangeScore
	ChangeContext
	ChangeState
	ChangeReset
)

// String returns the change name
func (c Change) String() string {
	switch c {
	case ChangeMessages:
		return "messages"
	case ChangeLogs:
		return "logs"
	case ChangeResult:
		return "result"
	case ChangeScore:
		return "score"
	case ChangeContext:
		return "context"
	case ChangeState:
		return "state"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Observer is notified after every store mutation
type Observer func(Change)

// Snapshot is a point-in-time copy of the store contents
type Snapshot struct {
	Messages []roast.ChatMessage
	Logs     []string
	Result   *roast.AnalysisResult
	Score    int
	Context  string
}

// HasResult reports whether the snapshot holds an analysis result
func (s Snapshot) HasResult() bool {
	return s.Result != nil
}

// Store holds the state of one conversation session: transcript, log
// console, last analysis result, viability score and the context string sent
// back to the service on follow-up turns.
type Store struct {
	id string

	mu       sync.RWMutex
	messages []roast.ChatMessage
	logs     []string
	result   *roast.AnalysisResult
	score    int
	context  string

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// NewStore creates an empty store with a fresh session ID
func NewStore() *Store {
	return &Store{
		id:        uuid.New().String(),
		observers: make(map[int]Observer),
	}
}

// ID returns the session identifier
func (s *Store) ID() string {
	return s.id
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// Notify publishes a change to all observers. The driver uses it to publish
// turn state changes through the same channel as data changes.
func (s *Store) Notify(c Change) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(c)
	}
}

// AppendMessage adds msg to the end of the transcript
func (s *Store) AppendMessage(msg roast.ChatMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.Notify(ChangeMessages)
}

// MutateLastAssistantMessage appends delta to the last message when it is an
// assistant text message. It returns false and changes nothing otherwise.
func (s *Store) MutateLastAssistantMessage(delta string) bool {
	s.mu.Lock()
	n := len(s.messages)
	if n == 0 || !s.messages[n-1].IsStreamTarget() {
		s.mu.Unlock()
		return false
	}
	s.messages[n-1].Content += delta
	s.mu.Unlock()

	s.Notify(ChangeMessages)
	return true
}

// AppendLog adds line to the end of the log console
func (s *Store) AppendLog(line string) {
	s.mu.Lock()
	s.logs = append(s.logs, line)
	s.mu.Unlock()

	s.Notify(ChangeLogs)
}

// SetAnalysisResult replaces the stored result. A non-nil result also sets
// the viability score to its verdict score.
func (s *Store) SetAnalysisResult(result *roast.AnalysisResult) {
	s.mu.Lock()
	s.result = result.Clone()
	if result != nil {
		s.score = result.Verdict.ViabilityScore
	}
	s.mu.Unlock()

	s.Notify(ChangeResult)
	if result != nil {
		s.Notify(ChangeScore)
	}
}

// SetScore clamps n into [0,10] and stores it. When a result is stored its
// verdict score is rewritten to the same value.
func (s *Store) SetScore(n int) {
	clamped := roast.ClampScore(n)

	s.mu.Lock()
	s.score = clamped
	if s.result != nil {
		s.result.Verdict.ViabilityScore = clamped
	}
	s.mu.Unlock()

	s.Notify(ChangeScore)
}

// SetContext replaces the raw context string
func (s *Store) SetContext(ctx string) {
	s.mu.Lock()
	s.context = ctx
	s.mu.Unlock()

	s.Notify(ChangeContext)
}

// Reset returns the store to its initial state in one step
func (s *Store) Reset() {
	s.mu.Lock()
	s.result = nil
	s.score = 0
	s.messages = nil
	s.logs = nil
	s.context = ""
	s.mu.Unlock()

	s.Notify(ChangeReset)
}

// HasResult reports whether an analysis result is stored
func (s *Store) HasResult() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result != nil
}

// HasContext reports whether an analysis has happened in this session
func (s *Store) HasContext() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context != ""
}

// Messages returns a copy of the transcript
func (s *Store) Messages() []roast.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]roast.ChatMessage(nil), s.messages...)
}

// Logs returns a copy of the log console lines
func (s *Store) Logs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.logs...)
}

// Result returns a copy of the stored analysis result, or nil
func (s *Store) Result() *roast.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Clone()
}

// Score returns the viability score
func (s *Store) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Context returns the raw context string
func (s *Store) Context() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// Snapshot returns a consistent copy of the whole store
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Messages: append([]roast.ChatMessage(nil), s.messages...),
		Logs:     append([]string(nil), s.logs...),
		Result:   s.result.Clone(),
		Score:    s.score,
		Context:  s.context,
	}
}

// Shutdown clears the store and drops all observers when the session scope
// is torn down.
func (s *Store) Shutdown() error {
	s.Reset()

	s.obsMu.Lock()
	s.observers = make(map[int]Observer)
	s.obsMu.Unlock()
	return nil
}
