package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures the developer log
type Options struct {
	// Level is one of debug, info, warn, error
	Level string

	// Console receives human readable output. Nil disables it, which the
	// interactive chat needs so log lines do not tear the screen.
	Console io.Writer

	// NoColor disables ANSI colors on the console
	NoColor bool

	// File receives JSON records when set
	File string

	// AddSource records the caller location
	AddSource bool
}

// Preinit installs a console logger on stderr so anything logged before the
// configuration is loaded is still visible
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: slog.LevelWarn,
	})))
}

// New builds a logger that fans records out to the console and the log file.
// The returned function closes the file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	closer := func() error { return nil }
	handlers := make([]slog.Handler, 0, 2)

	if opts.Console != nil {
		handlers = append(handlers, console.NewHandler(opts.Console, &console.HandlerOptions{
			AddSource: opts.AddSource,
			Level:     level,
			NoColor:   opts.NoColor,
		}))
	}

	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			return nil, nil, err
		}
		closer = f.Close
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			AddSource: opts.AddSource,
			Level:     level,
		}))
	}

	if len(handlers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Component returns a child logger tagged with a component name
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

// ParseLevel maps a level name to a slog level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s)
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	// #nosec G304 - path comes from the user's own configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
