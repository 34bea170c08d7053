package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/PitchRoast/internal/driver"
	"github.com/yildizm/PitchRoast/internal/emoji"
	"github.com/yildizm/PitchRoast/internal/formatter"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/PitchRoast/internal/session"
	"github.com/yildizm/PitchRoast/internal/ui/components"
)

// Submitter runs conversation turns
type Submitter interface {
	Submit(ctx context.Context, input string) (driver.Outcome, error)
	Busy() bool
}

// ViewState represents the screen shown below the header
type ViewState int

const (
	ViewChat ViewState = iota
	ViewDashboard
	ViewHelp
)

const (
	defaultWidth     = 80
	logPanelLines    = 6
	defaultExportDir = "."
)

// Options configures the chat TUI
type Options struct {
	Store  *session.Store
	Driver Submitter

	// Context bounds every request; quitting cancels it
	Context context.Context

	// TimestampFormat is the layout of log console arrival times
	TimestampFormat string

	// ExportDir receives Markdown reports
	ExportDir string

	// Exporter renders exported reports, Markdown when nil
	Exporter formatter.Formatter

	// InitialInput is submitted as soon as the program starts
	InitialInput string
}

// ChatModel is the interactive roast session
type ChatModel struct {
	store    *session.Store
	driver   Submitter
	ctx      context.Context
	cancel   context.CancelFunc
	exporter formatter.Formatter
	opts     Options

	width    int
	height   int
	ready    bool
	quitting bool

	view     ViewState
	input    []rune
	busy     bool
	showLogs bool
	scroll   int
	status   string

	// logTimes holds the arrival time of each log console line
	logTimes []time.Time

	spinner *components.Spinner
	styles  *Styles
	now     func() time.Time
}

// NewChatModel creates the chat model
func NewChatModel(opts Options) *ChatModel {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	if opts.TimestampFormat == "" {
		opts.TimestampFormat = "15:04:05"
	}
	if opts.ExportDir == "" {
		opts.ExportDir = defaultExportDir
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = formatter.NewMarkdown()
	}

	spinner := components.NewSpinner()
	spinner.SetLabel("Analyst is typing")

	return &ChatModel{
		store:    opts.Store,
		driver:   opts.Driver,
		ctx:      ctx,
		cancel:   cancel,
		exporter: exporter,
		opts:     opts,
		showLogs: true,
		spinner:  spinner,
		styles:   GetStyles(),
		now:      time.Now,
	}
}

// Init starts the animation clock and submits the initial input, if any
func (m *ChatModel) Init() tea.Cmd {
	if strings.TrimSpace(m.opts.InitialInput) == "" {
		return tick()
	}
	m.input = []rune(m.opts.InitialInput)
	_, submit := m.handleSubmit()
	return tea.Batch(tick(), submit)
}

// Update handles messages
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case storeChangedMsg:
		m.handleStoreChange(msg.change)

	case submitDoneMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, driver.ErrBusy):
			m.status = "A request is already in flight"
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.outcome.Failed:
			m.status = "Request failed"
		default:
			m.status = ""
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Report saved to " + msg.path
		}

	case tickMsg:
		if m.busy {
			m.spinner.Tick()
		}
		return m, tick()
	}

	return m, nil
}

// handleStoreChange syncs view state with a store mutation
func (m *ChatModel) handleStoreChange(change session.Change) {
	switch change {
	case session.ChangeLogs:
		n := len(m.store.Logs())
		if n < len(m.logTimes) {
			m.logTimes = m.logTimes[:n]
		}
		for len(m.logTimes) < n {
			m.logTimes = append(m.logTimes, m.now())
		}
	case session.ChangeReset:
		m.logTimes = nil
		m.scroll = 0
		m.view = ViewChat
		m.status = "Session reset"
	case session.ChangeMessages:
		m.scroll = 0
	case session.ChangeState:
		if m.driver != nil && m.driver.Busy() {
			m.busy = true
		}
	}
}

// handleKeyPress handles keyboard input
func (m *ChatModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.handleQuit()
	case "esc":
		m.view = ViewChat
		m.scroll = 0
		return m, nil
	case "enter":
		return m.handleSubmit()
	case "tab", "ctrl+d":
		return m.handleToggleDashboard()
	case "ctrl+r":
		return m.handleReset()
	case "ctrl+e":
		return m.handleExport()
	case "ctrl+l":
		m.showLogs = !m.showLogs
		return m, nil
	case "f1":
		m.view = ViewHelp
		return m, nil
	case "pgup":
		m.scroll += m.pageSize()
		return m, nil
	case "pgdown":
		m.scroll = max(0, m.scroll-m.pageSize())
		return m, nil
	case "backspace":
		if !m.busy && len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case "ctrl+w":
		if !m.busy {
			m.input = deleteWord(m.input)
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if m.busy || m.view != ViewChat {
			return m, nil
		}
		if msg.Type == tea.KeySpace {
			m.input = append(m.input, ' ')
		} else {
			m.input = append(m.input, msg.Runes...)
		}
	}
	return m, nil
}

func (m *ChatModel) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func (m *ChatModel) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(string(m.input))
	if m.busy || text == "" || m.view != ViewChat {
		return m, nil
	}

	m.input = nil
	m.busy = true
	m.scroll = 0
	m.status = ""
	m.spinner.Restart()
	return m, submitCommand(m.ctx, m.driver, text)
}

// handleToggleDashboard switches views once an analysis result exists
func (m *ChatModel) handleToggleDashboard() (tea.Model, tea.Cmd) {
	if !m.store.HasResult() {
		return m, nil
	}
	if m.view == ViewDashboard {
		m.view = ViewChat
	} else {
		m.view = ViewDashboard
	}
	m.scroll = 0
	return m, nil
}

// handleReset clears the session when a context exists and nothing is in flight
func (m *ChatModel) handleReset() (tea.Model, tea.Cmd) {
	if m.busy || !m.store.HasContext() {
		return m, nil
	}
	return m, resetCommand(m.store)
}

func (m *ChatModel) handleExport() (tea.Model, tea.Cmd) {
	if !m.store.HasResult() {
		return m, nil
	}
	return m, exportCommand(m.exporter, m.report(), m.opts.ExportDir)
}

// report builds an export report from the store
func (m *ChatModel) report() *formatter.Report {
	snap := m.store.Snapshot()
	report := &formatter.Report{
		Result:      snap.Result,
		Transcript:  snap.Messages,
		GeneratedAt: m.now(),
	}
	for _, msg := range snap.Messages {
		if msg.Role == roast.RoleUser {
			report.Pitch = msg.Content
			break
		}
	}
	return report
}

// View renders the model
func (m *ChatModel) View() string {
	if m.quitting {
		return m.styles.Muted.Render(emoji.GetEmoji("door") + " Good luck out there.")
	}

	var body string
	switch m.view {
	case ViewDashboard:
		body = m.renderDashboard()
	case ViewHelp:
		body = m.renderHelp()
	default:
		body = m.renderChat()
	}

	sections := []string{m.renderHeader(), body}
	if m.view == ViewChat {
		if m.showLogs {
			sections = append(sections, m.renderLogs())
		}
		sections = append(sections, m.renderInput())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ChatModel) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("fire") + " PitchRoast")

	status := m.styles.Ready.Render("Ready")
	if m.busy {
		status = m.styles.Busy.Render("Processing...")
	}

	parts := []string{title, status}
	if m.store.HasResult() {
		score := m.store.Score()
		parts = append(parts, m.styles.Score.Render(fmt.Sprintf("Score: %d/10 %s", score, roast.ScoreLabel(score))))
	}
	return strings.Join(parts, "  ")
}

func (m *ChatModel) renderChat() string {
	messages := m.store.Messages()
	width := m.contentWidth()

	if len(messages) == 0 && !m.busy {
		return m.styles.Muted.Render("\nPaste your startup pitch and press Enter.\nWe'll tell you exactly how it dies.\n")
	}

	var blocks []string
	for i, msg := range messages {
		last := i == len(messages)-1
		if msg.Role == roast.RoleUser {
			blocks = append(blocks, m.renderUserMessage(msg.Content, width))
			continue
		}
		content := msg.Content
		if content == "" && last && m.busy {
			content = m.spinner.Render()
		}
		blocks = append(blocks, m.renderAnalystMessage(content, width))
	}

	// The analysis phase has no placeholder until the summary arrives
	if m.busy && (len(messages) == 0 || messages[len(messages)-1].Role == roast.RoleUser) {
		blocks = append(blocks, m.renderAnalystMessage(m.spinner.Render(), width))
	}

	return m.window(strings.Join(blocks, "\n"), m.chatHeight())
}

func (m *ChatModel) renderUserMessage(content string, width int) string {
	bubbleWidth := max(20, width*2/3)
	name := m.styles.UserName.Render("You " + emoji.GetEmoji("user"))
	bubble := m.styles.UserBubble.Width(bubbleWidth).Render(content)
	block := lipgloss.JoinVertical(lipgloss.Right, name, bubble)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func (m *ChatModel) renderAnalystMessage(content string, width int) string {
	bubbleWidth := max(20, width*2/3)
	name := m.styles.AnalystName.Render(emoji.GetEmoji("analyst") + " Analyst")
	bubble := m.styles.AnalystBubble.Width(bubbleWidth).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, name, bubble)
}

func (m *ChatModel) renderLogs() string {
	logs := m.store.Logs()
	start := max(0, len(logs)-logPanelLines)

	lines := make([]string, 0, logPanelLines)
	for i := start; i < len(logs); i++ {
		lines = append(lines, m.renderLogLine(i, logs[i]))
	}
	if len(lines) == 0 {
		lines = append(lines, m.styles.Muted.Render("No activity yet"))
	}

	return m.styles.LogPanel.Width(max(20, m.contentWidth()-2)).Render(strings.Join(lines, "\n"))
}

// renderLogLine renders one console line with arrival time and severity icon
func (m *ChatModel) renderLogLine(i int, line string) string {
	stamp := ""
	if i < len(m.logTimes) {
		stamp = m.styles.LogTime.Render(m.logTimes[i].Format(m.opts.TimestampFormat)) + " "
	}

	kind := emoji.ClassifyLog(line)
	style := m.styles.LogInfo
	switch kind {
	case emoji.LogError:
		style = m.styles.LogError
	case emoji.LogStep:
		style = m.styles.LogStep
	case emoji.LogRound:
		style = m.styles.LogRound
	}

	return stamp + style.Render(emoji.LogSymbol(kind)+" "+line)
}

func (m *ChatModel) renderInput() string {
	width := max(20, m.contentWidth()-2)
	if m.busy {
		return m.styles.InputDisabled.Width(width).Render("Waiting for the analyst...")
	}

	prompt := "Describe your startup..."
	if m.store.HasContext() {
		prompt = "Defend your idea..."
	}
	if len(m.input) == 0 {
		return m.styles.Input.Width(width).Render("> " + m.styles.Muted.Render(prompt))
	}
	return m.styles.Input.Width(width).Render("> " + string(m.input) + "█")
}

func (m *ChatModel) renderFooter() string {
	keys := []string{"enter send"}
	if m.store.HasResult() {
		if m.view == ViewDashboard {
			keys = append(keys, "tab chat")
		} else {
			keys = append(keys, "tab dashboard")
		}
		keys = append(keys, "ctrl+e export")
	}
	if !m.busy && m.store.HasContext() {
		keys = append(keys, "ctrl+r reset")
	}
	keys = append(keys, "ctrl+l logs", "f1 help", "ctrl+c quit")

	footer := m.styles.Muted.Render(strings.Join(keys, " • "))
	if m.status != "" {
		footer = m.styles.Busy.Render(m.status) + "\n" + footer
	}
	return footer
}

func (m *ChatModel) renderHelp() string {
	lines := []string{
		emoji.GetEmoji("help") + " PitchRoast Help",
		"",
		"  enter        Send the pitch or your defense",
		"  tab, ctrl+d  Toggle the dashboard (after an analysis)",
		"  ctrl+e       Export a Markdown report",
		"  ctrl+r       Start over with a new pitch",
		"  ctrl+l       Show or hide the log console",
		"  pgup/pgdown  Scroll",
		"  esc          Back to the chat",
		"  ctrl+c       Quit",
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m *ChatModel) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// chatHeight is the number of body lines left after the fixed chrome
func (m *ChatModel) chatHeight() int {
	if m.height <= 0 {
		return 0
	}
	chrome := 1 + 3 + 2
	if m.showLogs {
		chrome += logPanelLines + 2
	}
	return max(3, m.height-chrome)
}

func (m *ChatModel) pageSize() int {
	return max(1, m.chatHeight()/2)
}

// window returns the height lines of content ending scroll lines above the
// bottom. A zero height shows everything.
func (m *ChatModel) window(content string, height int) string {
	if height <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	maxScroll := max(0, len(lines)-height)
	m.scroll = min(m.scroll, maxScroll)

	end := len(lines) - m.scroll
	start := max(0, end-height)
	return strings.Join(lines[start:end], "\n")
}

func deleteWord(input []rune) []rune {
	i := len(input)
	for i > 0 && unicode.IsSpace(input[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(input[i-1]) {
		i--
	}
	return input[:i]
}

// Run starts the chat TUI and blocks until the user quits
func Run(opts Options) error {
	model := NewChatModel(opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))

	unsubscribe := opts.Store.Subscribe(func(c session.Change) {
		p.Send(storeChangedMsg{change: c})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && model.quitting {
		return nil
	}
	return err
}
