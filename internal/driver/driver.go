package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/yildizm/PitchRoast/internal/logger"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/PitchRoast/internal/session"
	"github.com/yildizm/PitchRoast/internal/stream"
)

var (
	// ErrEmptyInput rejects blank submissions
	ErrEmptyInput = errors.New("input is empty")

	// ErrBusy rejects a submission while another turn is in flight
	ErrBusy = errors.New("a request is already in flight")
)

// result events carry the whole analysis on one line
const streamBufferSize = 64 << 10

// API is the analysis service as seen by the driver
type API interface {
	Analyze(ctx context.Context, pitch string) (io.ReadCloser, error)
	Chat(ctx context.Context, messages []roast.ChatMessage, analysisContext string) (io.ReadCloser, error)
}

// State is the phase of the current turn
type State int32

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// TurnKind tells which request shape a turn used
type TurnKind string

const (
	TurnAnalyze TurnKind = "analyze"
	TurnChat    TurnKind = "chat"
)

// Outcome describes how a turn ended
type Outcome struct {
	ID     string
	Kind   TurnKind
	Stats  stream.Stats
	Failed bool
	Err    error
}

// Driver turns user submissions into store mutations by streaming the
// analysis service's answer.
type Driver struct {
	store  *session.Store
	api    API
	logger *slog.Logger

	inFlight atomic.Bool
	state    atomic.Int32
}

// New creates a driver writing into store
func New(store *session.Store, api API, log *slog.Logger) *Driver {
	return &Driver{
		store:  store,
		api:    api,
		logger: logger.Component(log, "driver").With("session", store.ID()),
	}
}

// State returns the phase of the current turn
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Busy reports whether a turn is in flight
func (d *Driver) Busy() bool {
	return d.inFlight.Load()
}

// Submit runs one conversation turn for input. It blocks until the stream
// ends. Only blank input and concurrent submissions are returned as errors;
// turn failures are recorded in the store and reported in the Outcome.
func (d *Driver) Submit(ctx context.Context, input string) (Outcome, error) {
	if strings.TrimSpace(input) == "" {
		return Outcome{}, ErrEmptyInput
	}
	if !d.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrBusy
	}
	defer func() {
		d.inFlight.Store(false)
		d.setState(StateIdle)
	}()

	d.store.AppendMessage(roast.UserMessage(input))

	outcome := Outcome{ID: uuid.New().String()}
	logger := d.logger.With("turn", outcome.ID)

	err := d.run(ctx, input, &outcome, logger)
	if err != nil {
		outcome.Failed = true
		outcome.Err = err

		logger.Error("turn failed", "kind", outcome.Kind, "error", err)
		d.store.AppendLog(CriticalPrefix + err.Error())
		d.store.AppendMessage(roast.AssistantMessage(FailureMessage))
	}

	return outcome, nil
}

func (d *Driver) run(ctx context.Context, input string, outcome *Outcome, logger *slog.Logger) error {
	d.setState(StateSending)

	analysisContext := d.store.Context()
	isPitch := analysisContext == ""

	var (
		body io.ReadCloser
		err  error
	)
	if isPitch {
		outcome.Kind = TurnAnalyze
		logger.Debug("sending pitch", "bytes", len(input))
		body, err = d.api.Analyze(ctx, input)
	} else {
		outcome.Kind = TurnChat
		messages := d.store.Messages()
		logger.Debug("sending chat turn", "messages", len(messages), "context_bytes", len(analysisContext))
		body, err = d.api.Chat(ctx, messages, analysisContext)
	}
	if err != nil {
		return err
	}
	if body == nil {
		return errors.New("no response body")
	}
	defer func() { _ = body.Close() }()

	if !isPitch {
		d.store.AppendMessage(roast.AssistantMessage(""))
	}

	d.setState(StateStreaming)

	reader := stream.NewReader(body,
		stream.WithBufferSize(streamBufferSize),
		stream.WithMalformedHandler(func(line []byte, err error) {
			logger.Warn("error parsing stream line", "line", truncate(string(line), 200), "error", err)
		}))

	err = reader.Each(ctx, func(ev stream.Event) error {
		d.dispatch(ev, logger)
		return nil
	})
	outcome.Stats = reader.Stats()

	logger.Debug("stream finished",
		"events", outcome.Stats.Events,
		"malformed", outcome.Stats.Malformed,
		"bytes", outcome.Stats.Bytes)

	return err
}

// dispatch applies one stream event to the store
func (d *Driver) dispatch(ev stream.Event, logger *slog.Logger) {
	if !ev.Known() {
		logger.Debug("ignoring stream event", "type", ev.Type)
		return
	}

	switch ev.Type {
	case stream.EventLog:
		d.store.AppendLog(ev.Message)

	case stream.EventResult:
		d.applyResult(ev.Data, logger)

	case stream.EventChunk:
		if !d.store.MutateLastAssistantMessage(ev.Content) {
			logger.Debug("chunk without assistant message", "bytes", len(ev.Content))
		}

	case stream.EventError:
		d.store.AppendLog(ErrorPrefix + ev.Message)
	}
}

func (d *Driver) applyResult(data []byte, logger *slog.Logger) {
	result, err := roast.DecodeResult(data)
	if err != nil {
		logger.Warn("rejected analysis result", "error", err)
		d.store.AppendLog(fmt.Sprintf("%srejected analysis result: %v", ErrorPrefix, err))
		return
	}

	analysisContext, err := roast.CompactContext(data)
	if err != nil {
		logger.Warn("rejected analysis result", "error", err)
		d.store.AppendLog(fmt.Sprintf("%srejected analysis result: %v", ErrorPrefix, err))
		return
	}

	d.store.SetContext(analysisContext)
	d.store.SetAnalysisResult(result)
	d.store.AppendMessage(roast.AssistantMessage(Summary(result.Verdict)))

	logger.Info("analysis result received",
		"score", result.Verdict.ViabilityScore,
		"rounds", len(result.RoastRounds))
}

func (d *Driver) setState(s State) {
	if State(d.state.Swap(int32(s))) != s {
		d.store.Notify(session.ChangeState)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
