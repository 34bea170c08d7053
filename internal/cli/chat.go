package cli

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/yildizm/PitchRoast/internal/formatter"
	"github.com/yildizm/PitchRoast/internal/ui"
)

var chatExportDir string

func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive roast session",
		Long: `Open the chat interface. Your first message is analyzed as a pitch; every
message after the verdict is a defense the analyst answers in context.

The developer log is written to the log file only (--log-file or log.file)
so it does not tear the screen.

Examples:
  pitchroast
  pitchroast chat --intensity Brutal
  pitchroast chat --export-dir ./reports`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatExportDir, "export-dir", ".", "directory for exported Markdown reports")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	return runTUI(cmd, "")
}

// runTUI opens the chat interface, optionally submitting initial right away
func runTUI(cmd *cobra.Command, initial string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to close session", "error", err)
		}
	}()

	err = ui.Run(ui.Options{
		Store:           a.store,
		Driver:          a.driver,
		Context:         cmd.Context(),
		TimestampFormat: cfg.Output.TimestampFormat,
		ExportDir:       chatExportDir,
		Exporter:        formatter.NewMarkdown(),
		InitialInput:    initial,
	})
	if err != nil {
		return oops.In("cli").Errorf("chat session failed: %w", err)
	}
	return nil
}
