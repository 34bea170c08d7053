package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/yildizm/PitchRoast/internal/client"
	"github.com/yildizm/PitchRoast/internal/config"
	"github.com/yildizm/PitchRoast/internal/driver"
	"github.com/yildizm/PitchRoast/internal/emoji"
	"github.com/yildizm/PitchRoast/internal/logger"
	"github.com/yildizm/PitchRoast/internal/session"
	"github.com/yildizm/PitchRoast/internal/ui"
)

var userAgent = "pitchroast/dev"

// loadConfig loads the configuration and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if intensity != "" {
		cfg.API.Intensity = intensity
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if noEmoji {
		cfg.Output.NoEmoji = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, oops.In("cli").Errorf("invalid command line overrides: %w", err)
	}

	emoji.SetEmojiDisabled(cfg.Output.NoEmoji)
	ui.SetThemeByName(cfg.Output.Theme)
	return cfg, nil
}

// useColor resolves the color mode against the flags and the terminal
func useColor(cfg *config.Config) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		info, err := os.Stdout.Stat()
		return err == nil && info.Mode()&os.ModeCharDevice != 0
	}
}

// app is one wired session: logger, transport, store and driver
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	injector *do.Injector
	store    *session.Store
	client   *client.Client
	driver   *driver.Driver
	closeLog func() error
}

// newApp wires a session. console receives the developer log, nil keeps it
// in the log file only.
func newApp(cfg *config.Config, console io.Writer) (*app, error) {
	log, closeLog, err := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Console:   console,
		NoColor:   !useColor(cfg),
		File:      cfg.Log.File,
		AddSource: isVerbose(),
	})
	if err != nil {
		return nil, oops.In("cli").Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(log)

	c, err := client.New(cfg.ClientConfig(userAgent))
	if err != nil {
		_ = closeLog()
		return nil, oops.In("cli").Errorf("failed to create client: %w", err)
	}

	injector := session.NewScope()
	store := session.MustFrom(injector)
	log.Debug("session started", "session", store.ID(), "base_url", c.BaseURL(), "intensity", cfg.API.Intensity)

	return &app{
		cfg:      cfg,
		logger:   log,
		injector: injector,
		store:    store,
		client:   c,
		driver:   driver.New(store, c, log),
		closeLog: closeLog,
	}, nil
}

// Close tears the session down and flushes the log file
func (a *app) Close() error {
	return errors.Join(session.Close(a.injector), a.closeLog())
}
