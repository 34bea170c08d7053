package ui

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/PitchRoast/internal/driver"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/PitchRoast/internal/session"
)

// fakeSubmitter records turns and writes a canned answer into the store
type fakeSubmitter struct {
	store *session.Store
	busy  atomic.Bool
	calls []string
}

func (f *fakeSubmitter) Submit(_ context.Context, input string) (driver.Outcome, error) {
	f.calls = append(f.calls, input)
	f.store.AppendMessage(roast.UserMessage(input))
	f.store.AppendLog("Step 1: reading pitch")
	f.store.AppendMessage(roast.AssistantMessage("It dies."))
	return driver.Outcome{Kind: driver.TurnAnalyze}, nil
}

func (f *fakeSubmitter) Busy() bool {
	return f.busy.Load()
}

func newTestModel(t *testing.T) (*ChatModel, *session.Store, *fakeSubmitter) {
	t.Helper()
	store := session.NewStore()
	sub := &fakeSubmitter{store: store}
	m := NewChatModel(Options{Store: store, Driver: sub, ExportDir: t.TempDir()})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC) }
	return m, store, sub
}

func typeText(m *ChatModel, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *ChatModel, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

func sampleResult(score int) *roast.AnalysisResult {
	return &roast.AnalysisResult{
		Assumptions: []roast.Assumption{{Description: "People want this", Category: "Market"}},
		Verdict: roast.Verdict{
			FinalVerdict:   "Nobody asked for this.",
			KillReason:     "no market",
			ViabilityScore: score,
		},
	}
}

func TestChatModel_SubmitTurn(t *testing.T) {
	m, store, sub := newTestModel(t)

	typeText(m, "Uber")
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	typeText(m, "for penguins")
	if got := string(m.input); got != "Uber for penguins" {
		t.Fatalf("input = %q", got)
	}

	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if !m.busy || len(m.input) != 0 {
		t.Fatalf("expected busy model with cleared input, busy=%v input=%q", m.busy, string(m.input))
	}
	if view := m.View(); !strings.Contains(view, "Processing...") || !strings.Contains(view, "Waiting for the analyst") {
		t.Errorf("busy view missing status or disabled input:\n%s", view)
	}

	m.Update(cmd())
	if m.busy {
		t.Error("model should be idle after the turn ends")
	}
	if len(sub.calls) != 1 || sub.calls[0] != "Uber for penguins" {
		t.Errorf("unexpected submissions %v", sub.calls)
	}
	if len(store.Messages()) != 2 {
		t.Errorf("expected 2 messages, got %d", len(store.Messages()))
	}

	view := m.View()
	for _, want := range []string{"Ready", "You", "Analyst", "It dies."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestChatModel_InputGating(t *testing.T) {
	m, _, _ := newTestModel(t)

	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("empty input must not submit")
	}

	typeText(m, "   ")
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("blank input must not submit")
	}

	m.input = []rune("pitch")
	if cmd := press(m, tea.KeyEnter); cmd == nil {
		t.Fatal("expected a submit command")
	}

	typeText(m, "more")
	if len(m.input) != 0 {
		t.Errorf("typing while busy should be ignored, input = %q", string(m.input))
	}
	m.input = []rune("again")
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("must not submit while a turn is in flight")
	}
}

func TestChatModel_Editing(t *testing.T) {
	m, _, _ := newTestModel(t)

	typeText(m, "hello world")
	press(m, tea.KeyBackspace)
	if got := string(m.input); got != "hello worl" {
		t.Errorf("backspace: input = %q", got)
	}

	press(m, tea.KeyCtrlW)
	if got := string(m.input); got != "hello " {
		t.Errorf("ctrl+w: input = %q", got)
	}
}

func TestDeleteWord(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"one", ""},
		{"one two", "one "},
		{"one two   ", "one "},
	}
	for _, tt := range tests {
		if got := string(deleteWord([]rune(tt.input))); got != tt.want {
			t.Errorf("deleteWord(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestChatModel_DashboardGating(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, tea.KeyTab)
	if m.view != ViewChat {
		t.Fatal("dashboard must stay hidden without a result")
	}
	if strings.Contains(m.View(), "tab dashboard") {
		t.Error("footer should not offer the dashboard without a result")
	}

	store.SetAnalysisResult(sampleResult(2))

	press(m, tea.KeyTab)
	if m.view != ViewDashboard {
		t.Fatal("expected dashboard view")
	}
	view := m.View()
	for _, want := range []string{"Viability", "Assumptions", "Score: 2/10 DEAD ON ARRIVAL"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	press(m, tea.KeyCtrlD)
	if m.view != ViewChat {
		t.Error("ctrl+d should toggle back to chat")
	}
}

func TestChatModel_ResetGating(t *testing.T) {
	m, store, _ := newTestModel(t)

	if cmd := press(m, tea.KeyCtrlR); cmd != nil {
		t.Error("reset must be unavailable without a context")
	}

	store.SetContext(`{"verdict":{}}`)
	store.AppendMessage(roast.UserMessage("pitch"))

	m.busy = true
	if cmd := press(m, tea.KeyCtrlR); cmd != nil {
		t.Error("reset must be unavailable while busy")
	}
	m.busy = false

	cmd := press(m, tea.KeyCtrlR)
	if cmd == nil {
		t.Fatal("expected a reset command")
	}
	cmd()
	if store.HasContext() || len(store.Messages()) != 0 {
		t.Error("store should be empty after reset")
	}

	m.Update(storeChangedMsg{change: session.ChangeReset})
	if m.status != "Session reset" {
		t.Errorf("status = %q", m.status)
	}
}

func TestChatModel_LogTimestamps(t *testing.T) {
	m, store, _ := newTestModel(t)

	store.AppendLog("Step 1: reading pitch")
	store.AppendLog("ERROR: rejected analysis result")
	m.Update(storeChangedMsg{change: session.ChangeLogs})

	if len(m.logTimes) != 2 {
		t.Fatalf("expected 2 timestamps, got %d", len(m.logTimes))
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "12:00:00 ▸ Step 1: reading pitch"},
		{1, "12:00:00 ✕ ERROR: rejected analysis result"},
	}
	logs := store.Logs()
	for _, tt := range tests {
		if got := m.renderLogLine(tt.index, logs[tt.index]); !strings.Contains(got, tt.want) {
			t.Errorf("line %d = %q, want %q", tt.index, got, tt.want)
		}
	}

	store.Reset()
	m.Update(storeChangedMsg{change: session.ChangeLogs})
	if len(m.logTimes) != 0 {
		t.Error("timestamps should shrink with the console")
	}
}

func TestChatModel_ToggleLogs(t *testing.T) {
	m, _, _ := newTestModel(t)

	if !strings.Contains(m.View(), "No activity yet") {
		t.Error("log console should be visible by default")
	}
	press(m, tea.KeyCtrlL)
	if strings.Contains(m.View(), "No activity yet") {
		t.Error("ctrl+l should hide the log console")
	}
}

func TestChatModel_Export(t *testing.T) {
	m, store, _ := newTestModel(t)

	if cmd := press(m, tea.KeyCtrlE); cmd != nil {
		t.Error("export must be unavailable without a result")
	}

	store.AppendMessage(roast.UserMessage("Uber for penguins"))
	store.SetAnalysisResult(sampleResult(2))

	cmd := press(m, tea.KeyCtrlE)
	if cmd == nil {
		t.Fatal("expected an export command")
	}

	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("export failed: %v", msg.err)
	}
	if !strings.HasSuffix(msg.path, "roast-20260102-120000.md") {
		t.Errorf("unexpected path %q", msg.path)
	}

	data, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Roast Report", "Uber for penguins", "no market"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q", want)
		}
	}

	m.Update(msg)
	if !strings.HasPrefix(m.status, "Report saved to ") {
		t.Errorf("status = %q", m.status)
	}
}

func TestChatModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t)

	typeText(m, "q")
	if m.quitting {
		t.Fatal("typing q must not quit")
	}

	cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel in-flight requests")
	}
}

func TestChatModel_Window(t *testing.T) {
	m, _, _ := newTestModel(t)
	content := "1\n2\n3\n4\n5"

	tests := []struct {
		scroll int
		want   string
	}{
		{0, "4\n5"},
		{1, "3\n4"},
		{10, "1\n2"},
	}
	for _, tt := range tests {
		m.scroll = tt.scroll
		if got := m.window(content, 2); got != tt.want {
			t.Errorf("scroll %d: got %q, want %q", tt.scroll, got, tt.want)
		}
	}

	if got := m.window(content, 0); got != content {
		t.Error("zero height should show everything")
	}
}

func TestChatModel_InitialInput(t *testing.T) {
	store := session.NewStore()
	sub := &fakeSubmitter{store: store}
	m := NewChatModel(Options{Store: store, Driver: sub, InitialInput: "Uber for penguins"})

	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init command")
	}
	if !m.busy {
		t.Error("initial input should start a turn")
	}
	if len(m.input) != 0 {
		t.Errorf("input should be cleared, got %q", string(m.input))
	}
}
