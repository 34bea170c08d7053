package session

import (
	"strings"
	"testing"

	"github.com/samber/do"
	"github.com/yildizm/PitchRoast/internal/roast"
)

func newResult(score int) *roast.AnalysisResult {
	return &roast.AnalysisResult{
		Verdict: roast.Verdict{
			KillReason:     "no market",
			ViabilityScore: score,
		},
	}
}

func TestStore_AppendMessage(t *testing.T) {
	s := NewStore()
	s.AppendMessage(roast.UserMessage("first"))
	s.AppendMessage(roast.AssistantMessage("second"))

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("Messages out of order: %+v", msgs)
	}
}

func TestStore_MutateLastAssistantMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []roast.ChatMessage
		wantOK   bool
		wantLast string
	}{
		{
			name:   "empty transcript",
			wantOK: false,
		},
		{
			name:     "last message from user",
			messages: []roast.ChatMessage{roast.UserMessage("hello")},
			wantOK:   false,
			wantLast: "hello",
		},
		{
			name:     "last message from assistant",
			messages: []roast.ChatMessage{roast.UserMessage("hello"), roast.AssistantMessage("Hi")},
			wantOK:   true,
			wantLast: "Hi there",
		},
		{
			name: "assistant message with other kind",
			messages: []roast.ChatMessage{
				{Role: roast.RoleAssistant, Content: "img", Kind: roast.Kind("image")},
			},
			wantOK:   false,
			wantLast: "img",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, m := range tt.messages {
				s.AppendMessage(m)
			}

			ok := s.MutateLastAssistantMessage(" there")
			if ok != tt.wantOK {
				t.Errorf("Expected ok=%v, got %v", tt.wantOK, ok)
			}

			msgs := s.Messages()
			if len(msgs) != len(tt.messages) {
				t.Fatalf("Mutation changed transcript length: %d", len(msgs))
			}
			if len(msgs) > 0 && msgs[len(msgs)-1].Content != tt.wantLast {
				t.Errorf("Expected last content %q, got %q", tt.wantLast, msgs[len(msgs)-1].Content)
			}
		})
	}
}

func TestStore_ChunksConcatenate(t *testing.T) {
	s := NewStore()
	s.AppendMessage(roast.UserMessage("defend"))
	s.AppendMessage(roast.AssistantMessage(""))

	chunks := []string{"Pen", "guins ", "do not ", "", "need ice. ", "日本"}
	for _, c := range chunks {
		s.MutateLastAssistantMessage(c)
	}

	msgs := s.Messages()
	if got, want := msgs[len(msgs)-1].Content, strings.Join(chunks, ""); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStore_SetAnalysisResult(t *testing.T) {
	s := NewStore()
	s.SetAnalysisResult(newResult(4))

	if !s.HasResult() {
		t.Fatal("Expected HasResult after SetAnalysisResult")
	}
	if s.Score() != 4 {
		t.Errorf("Expected score 4, got %d", s.Score())
	}

	s.SetAnalysisResult(nil)
	if s.HasResult() {
		t.Error("Expected HasResult false after nil result")
	}
	if s.Score() != 4 {
		t.Errorf("Expected nil result to leave score alone, got %d", s.Score())
	}
}

func TestStore_SetScore(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0}, {0, 0}, {5, 5}, {10, 10}, {99, 10},
	}

	for _, tt := range tests {
		s := NewStore()
		s.SetScore(tt.in)
		if s.Score() != tt.want {
			t.Errorf("SetScore(%d) without result: got %d, want %d", tt.in, s.Score(), tt.want)
		}

		s.SetAnalysisResult(newResult(2))
		s.SetScore(tt.in)
		if s.Score() != tt.want {
			t.Errorf("SetScore(%d): got %d, want %d", tt.in, s.Score(), tt.want)
		}
		if got := s.Result().Verdict.ViabilityScore; got != tt.want {
			t.Errorf("SetScore(%d): embedded score %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStore_ResultIsCopied(t *testing.T) {
	s := NewStore()
	r := newResult(3)
	s.SetAnalysisResult(r)

	r.Verdict.ViabilityScore = 9
	if s.Result().Verdict.ViabilityScore != 3 {
		t.Error("Store result changed through caller's pointer")
	}

	got := s.Result()
	got.Verdict.KillReason = "changed"
	if s.Result().Verdict.KillReason != "no market" {
		t.Error("Store result changed through returned copy")
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	s.AppendMessage(roast.UserMessage("pitch"))
	s.AppendLog("Step 1")
	s.SetAnalysisResult(newResult(6))
	s.SetContext(`{"verdict":{}}`)

	s.Reset()

	snap := s.Snapshot()
	if snap.HasResult() || s.HasResult() {
		t.Error("Expected no result after reset")
	}
	if len(snap.Messages) != 0 {
		t.Errorf("Expected empty transcript, got %d", len(snap.Messages))
	}
	if len(snap.Logs) != 0 {
		t.Errorf("Expected empty logs, got %d", len(snap.Logs))
	}
	if snap.Context != "" || s.HasContext() {
		t.Errorf("Expected empty context, got %q", snap.Context)
	}
	if snap.Score != 0 {
		t.Errorf("Expected score 0, got %d", snap.Score)
	}
}

func TestStore_Observers(t *testing.T) {
	s := NewStore()

	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) {
		changes = append(changes, c)
	})

	s.AppendMessage(roast.UserMessage("a"))
	s.AppendLog("b")
	s.SetContext("c")
	s.SetAnalysisResult(newResult(1))
	s.SetScore(2)
	s.MutateLastAssistantMessage("ignored")
	s.Reset()

	want := []Change{ChangeMessages, ChangeLogs, ChangeContext, ChangeResult, ChangeScore, ChangeScore, ChangeReset}
	if len(changes) != len(want) {
		t.Fatalf("Expected %d notifications, got %d: %v", len(want), len(changes), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Notification %d: expected %s, got %s", i, want[i], changes[i])
		}
	}

	unsubscribe()
	s.AppendLog("after")
	if len(changes) != len(want) {
		t.Error("Observer notified after unsubscribe")
	}
}

func TestStore_ObserverReadsStore(t *testing.T) {
	s := NewStore()

	var seen []string
	s.Subscribe(func(c Change) {
		if c == ChangeLogs {
			logs := s.Logs()
			seen = append(seen, logs[len(logs)-1])
		}
	})

	s.AppendLog("Step 1")
	s.AppendLog("Step 2")

	if strings.Join(seen, ",") != "Step 1,Step 2" {
		t.Errorf("Unexpected observed logs: %v", seen)
	}
}

func TestScope_MustFrom(t *testing.T) {
	injector := NewScope()

	first := MustFrom(injector)
	second := MustFrom(injector)
	if first != second {
		t.Error("Expected one store per session scope")
	}
	if first.ID() == "" {
		t.Error("Expected session ID")
	}
}

func TestScope_MustFromWithoutSession(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic when resolving a store outside a session")
		}
	}()

	MustFrom(do.New())
}

func TestScope_Close(t *testing.T) {
	injector := NewScope()
	s := MustFrom(injector)

	notified := 0
	s.Subscribe(func(Change) { notified++ })
	s.AppendLog("line")

	if err := Close(injector); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if len(s.Logs()) != 0 {
		t.Error("Expected store to be reset on close")
	}

	before := notified
	s.AppendLog("after close")
	if notified != before {
		t.Error("Expected observers to be dropped on close")
	}
}

func TestNewStore_UniqueIDs(t *testing.T) {
	if NewStore().ID() == NewStore().ID() {
		t.Error("Expected unique session IDs")
	}
}
