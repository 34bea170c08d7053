package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func collect(t *testing.T, r *Reader) []Event {
	t.Helper()

	var events []Event
	err := r.Each(context.Background(), func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	return events
}

func TestReader_DecodesEvents(t *testing.T) {
	body := `{"type":"log","message":"Step 1: Decomposing pitch..."}
{"type":"chunk","content":"Hello"}

{"type":"result","data":{"verdict":{"viability_score":2}}}
{"type":"error","message":"boom"}
{"type":"heartbeat"}
`
	events := collect(t, NewReader(strings.NewReader(body)))

	if len(events) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(events))
	}
	if events[0].Type != EventLog || events[0].Message != "Step 1: Decomposing pitch..." {
		t.Errorf("Unexpected log event: %+v", events[0])
	}
	if events[1].Type != EventChunk || events[1].Content != "Hello" {
		t.Errorf("Unexpected chunk event: %+v", events[1])
	}
	if events[2].Type != EventResult || !strings.Contains(string(events[2].Data), "viability_score") {
		t.Errorf("Unexpected result event: %+v", events[2])
	}
	if events[3].Type != EventError || events[3].Message != "boom" {
		t.Errorf("Unexpected error event: %+v", events[3])
	}
	if events[4].Known() {
		t.Errorf("Expected heartbeat to be unknown, got %+v", events[4])
	}
}

func TestReader_SplitAcrossReads(t *testing.T) {
	body := `{"type":"chunk","content":"Pingüinos ❄️ 日本"}` + "\n" + `{"type":"log","message":"Round 1"}` + "\n"

	// One byte per read splits every multi-byte character.
	r := NewReader(iotest.OneByteReader(strings.NewReader(body)), WithBufferSize(16))
	events := collect(t, r)

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Content != "Pingüinos ❄️ 日本" {
		t.Errorf("Multi-byte content corrupted: %q", events[0].Content)
	}
	if events[1].Message != "Round 1" {
		t.Errorf("Unexpected second event: %+v", events[1])
	}
}

func TestReader_MalformedLinesSkipped(t *testing.T) {
	body := `not json
{"type":"log","message":"ok"}
{"type":"log",
{"type":"log","message":42}
42
{"type":"chunk","content":"fine"}
`
	var malformed []string
	r := NewReader(strings.NewReader(body), WithMalformedHandler(func(line []byte, err error) {
		if err == nil {
			t.Error("Expected decode error for malformed line")
		}
		malformed = append(malformed, string(line))
	}))

	events := collect(t, r)

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d: %+v", len(events), events)
	}
	if len(malformed) != 4 {
		t.Errorf("Expected 4 malformed lines, got %d: %v", len(malformed), malformed)
	}

	stats := r.Stats()
	if stats.Events != 2 || stats.Malformed != 4 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Bytes != int64(len(body)) {
		t.Errorf("Expected %d bytes, got %d", len(body), stats.Bytes)
	}
}

func TestReader_TrailingLineWithoutNewline(t *testing.T) {
	body := `{"type":"log","message":"a"}` + "\n" + `{"type":"log","message":"b"}`
	events := collect(t, NewReader(strings.NewReader(body)))

	if len(events) != 2 || events[1].Message != "b" {
		t.Errorf("Expected trailing line to be decoded, got %+v", events)
	}
}

func TestReader_CRLF(t *testing.T) {
	body := "{\"type\":\"log\",\"message\":\"a\"}\r\n\r\n{\"type\":\"log\",\"message\":\"b\"}\r\n"
	events := collect(t, NewReader(strings.NewReader(body)))

	if len(events) != 2 {
		t.Errorf("Expected 2 events, got %d", len(events))
	}
}

func TestReader_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestReader_ReadErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewReader(io.MultiReader(
		strings.NewReader(`{"type":"log","message":"a"}`+"\n"),
		iotest.ErrReader(boom),
	))

	var events []Event
	err := r.Each(context.Background(), func(ev Event) error {
		events = append(events, ev)
		return nil
	})

	if !errors.Is(err, boom) {
		t.Errorf("Expected read error, got %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Expected event before failure to be delivered, got %d", len(events))
	}
}

func TestReader_EachStopsOnCallbackError(t *testing.T) {
	body := `{"type":"log","message":"a"}
{"type":"log","message":"b"}
`
	stop := errors.New("stop")
	calls := 0
	err := NewReader(strings.NewReader(body)).Each(context.Background(), func(Event) error {
		calls++
		return stop
	})

	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Expected to stop after first event, calls=%d err=%v", calls, err)
	}
}

func TestReader_EachHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewReader(strings.NewReader(`{"type":"log"}`)).Each(ctx, func(Event) error {
		t.Error("Callback called after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
