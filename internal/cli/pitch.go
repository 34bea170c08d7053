package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/yildizm/PitchRoast/internal/emoji"
	"github.com/yildizm/PitchRoast/internal/formatter"
	"github.com/yildizm/PitchRoast/internal/roast"
	"github.com/yildizm/PitchRoast/internal/session"
)

var (
	pitchFile       string
	pitchDefenses   []string
	pitchWatch      bool
	pitchNoTUI      bool
	pitchOutputFile string
)

func newPitchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pitch [text]",
		Short: "Roast a pitch from the command line",
		Long: `Submit a pitch and stream the analysis. The pitch is taken from the
arguments, from --file, or from stdin when neither is given.

With a terminal on stdout the chat interface opens with the pitch already
submitted. With --no-tui, or when stdout is redirected, server logs go to
stderr, the analyst's answers go to stdout and the report is printed at the
end. Each --defend message is sent as a follow-up after the verdict.

--watch keeps running and re-submits the pitch file on every save: the first
submission is analyzed, later ones are sent as defenses.

Examples:
  pitchroast pitch "Uber for penguins"
  pitchroast pitch -f pitch.txt --no-tui -o markdown --output-file roast.md
  pitchroast pitch "Uber for penguins" --no-tui --defend "Penguins have money now"
  pitchroast pitch -f pitch.txt --watch`,
		Args: cobra.ArbitraryArgs,
		RunE: runPitch,
	}

	cmd.Flags().StringVarP(&pitchFile, "file", "f", "", "read the pitch from a file")
	cmd.Flags().StringArrayVar(&pitchDefenses, "defend", nil, "follow-up message sent after the verdict (repeatable)")
	cmd.Flags().BoolVarP(&pitchWatch, "watch", "w", false, "re-submit the pitch file whenever it changes")
	cmd.Flags().BoolVar(&pitchNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&pitchOutputFile, "output-file", "", "save the report to file instead of stdout")

	return cmd
}

func runPitch(cmd *cobra.Command, args []string) error {
	if pitchWatch && pitchFile == "" {
		return oops.In("cli").Errorf("--watch needs --file")
	}

	pitch, err := readPitch(cmd, args)
	if err != nil {
		return err
	}

	if shouldUseTUIMode(cmd) {
		return runTUI(cmd, pitch)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to close session", "error", err)
		}
	}()

	// JSON reports own stdout, so streamed text moves to stderr
	streamOut := cmd.OutOrStdout()
	if cfg.Output.DefaultFormat == "json" {
		streamOut = cmd.ErrOrStderr()
	}
	printer := newStreamPrinter(a.store, streamOut, cmd.ErrOrStderr())
	unsubscribe := a.store.Subscribe(printer.OnChange)
	defer unsubscribe()

	if pitchWatch {
		return runWatch(cmd.Context(), a, printer, pitchFile, func() error {
			return writeReport(cmd, a)
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, input := range append([]string{pitch}, pitchDefenses...) {
		outcome, err := a.driver.Submit(ctx, input)
		printer.Finish()
		if err != nil {
			return oops.In("cli").Errorf("failed to submit: %w", err)
		}
		if outcome.Failed {
			return oops.In("cli").Errorf("%s request failed: %w", outcome.Kind, outcome.Err)
		}
		a.logger.Debug("turn finished", "turn", outcome.ID, "kind", outcome.Kind,
			"events", outcome.Stats.Events, "malformed", outcome.Stats.Malformed)
	}

	return writeReport(cmd, a)
}

// shouldUseTUIMode determines whether to hand the pitch to the chat interface
func shouldUseTUIMode(cmd *cobra.Command) bool {
	if pitchNoTUI || pitchWatch || len(pitchDefenses) > 0 || pitchOutputFile != "" {
		return false
	}
	if cmd.Flags().Changed("output") {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// readPitch takes the pitch from the arguments, --file or stdin
func readPitch(cmd *cobra.Command, args []string) (string, error) {
	var pitch string

	switch {
	case pitchFile != "" && len(args) > 0:
		return "", oops.In("cli").Errorf("give the pitch as arguments or --file, not both")
	case pitchFile != "":
		data, err := readPitchFile(pitchFile)
		if err != nil {
			return "", err
		}
		pitch = data
	case len(args) > 0:
		pitch = strings.Join(args, " ")
	default:
		if isVerbose() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Reading pitch from stdin...")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", oops.In("cli").Errorf("failed to read stdin: %w", err)
		}
		pitch = string(data)
	}

	pitch = strings.TrimSpace(pitch)
	if pitch == "" {
		return "", oops.In("cli").Errorf("the pitch is empty")
	}
	return pitch, nil
}

func readPitchFile(filename string) (string, error) {
	if err := validateFilePath(filename); err != nil {
		return "", oops.In("cli").Errorf("invalid file path: %w", err)
	}

	// #nosec G304 - path is validated above
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return "", oops.In("cli").Errorf("failed to read %s: %w", filename, err)
	}
	return string(data), nil
}

// writeReport renders the stored result in the configured format
func writeReport(cmd *cobra.Command, a *app) error {
	snap := a.store.Snapshot()
	if !snap.HasResult() {
		return oops.In("cli").Errorf("no analysis result was received")
	}

	f, err := formatter.New(a.cfg.Output.DefaultFormat, useColor(a.cfg) && pitchOutputFile == "")
	if err != nil {
		return err
	}

	report := &formatter.Report{Result: snap.Result, Transcript: snap.Messages}
	for _, msg := range snap.Messages {
		if msg.Role == roast.RoleUser {
			report.Pitch = msg.Content
			break
		}
	}

	output, err := f.Format(report)
	if err != nil {
		return oops.In("cli").Errorf("failed to format report: %w", err)
	}

	if pitchOutputFile == "" {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		_, err := out.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, pitchOutputFile); err != nil {
		return oops.In("cli").Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", pitchOutputFile)
	}
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}

// streamPrinter mirrors store changes to plain writers: log console lines to
// logs, transcript text to out as it streams in.
type streamPrinter struct {
	store *session.Store
	out   io.Writer
	logs  io.Writer

	mu       sync.Mutex
	logsSeen int
	index    int
	printed  int
	open     bool
}

func newStreamPrinter(store *session.Store, out, logs io.Writer) *streamPrinter {
	return &streamPrinter{store: store, out: out, logs: logs}
}

// OnChange is a session observer
func (p *streamPrinter) OnChange(change session.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch change {
	case session.ChangeLogs:
		p.printLogs()
	case session.ChangeMessages:
		p.printMessages()
	case session.ChangeReset:
		p.logsSeen, p.index, p.printed, p.open = 0, 0, 0, false
	}
}

func (p *streamPrinter) printLogs() {
	logs := p.store.Logs()
	for ; p.logsSeen < len(logs); p.logsSeen++ {
		line := logs[p.logsSeen]
		fmt.Fprintf(p.logs, "%s %s\n", emoji.LogSymbol(emoji.ClassifyLog(line)), line)
	}
}

// printMessages writes what is new in the transcript. The last assistant
// message stays open because chunks may still grow it.
func (p *streamPrinter) printMessages() {
	msgs := p.store.Messages()
	for p.index < len(msgs) {
		msg := msgs[p.index]
		last := p.index == len(msgs)-1

		if msg.Role == roast.RoleUser {
			fmt.Fprintf(p.out, "%s You: %s\n", emoji.GetEmoji("user"), msg.Content)
		} else {
			if !p.open {
				fmt.Fprintf(p.out, "%s Analyst: ", emoji.GetEmoji("analyst"))
				p.open = true
			}
			if p.printed < len(msg.Content) {
				fmt.Fprint(p.out, msg.Content[p.printed:])
				p.printed = len(msg.Content)
			}
			if last {
				return
			}
			fmt.Fprintln(p.out)
		}

		p.index++
		p.printed = 0
		p.open = false
	}
}

// Finish closes the open assistant line at the end of a turn
func (p *streamPrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		fmt.Fprintln(p.out)
		p.index++
		p.printed = 0
		p.open = false
	}
}
