package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/PitchRoast/internal/driver"
	"github.com/yildizm/PitchRoast/internal/formatter"
	"github.com/yildizm/PitchRoast/internal/session"
)

// storeChangedMsg carries a store notification into the update loop
type storeChangedMsg struct {
	change session.Change
}

// submitDoneMsg reports the end of a turn
type submitDoneMsg struct {
	outcome driver.Outcome
	err     error
}

// exportDoneMsg reports the end of a report export
type exportDoneMsg struct {
	path string
	err  error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Store mutations run inside commands, never in Update, so observers that
// forward into the program cannot block the update loop.

// submitCommand runs one conversation turn off the update loop
func submitCommand(ctx context.Context, d Submitter, input string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := d.Submit(ctx, input)
		return submitDoneMsg{outcome: outcome, err: err}
	}
}

// resetCommand clears the session
func resetCommand(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		store.Reset()
		return nil
	}
}

// exportCommand renders report and writes it into dir
func exportCommand(f formatter.Formatter, report *formatter.Report, dir string) tea.Cmd {
	return func() tea.Msg {
		data, err := f.Format(report)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return exportDoneMsg{err: fmt.Errorf("failed to create export directory: %w", err)}
		}

		name := fmt.Sprintf("roast-%s.md", report.GeneratedAt.Format("20060102-150405"))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{err: fmt.Errorf("failed to write report: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}
