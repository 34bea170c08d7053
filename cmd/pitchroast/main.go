package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yildizm/PitchRoast/internal/cli"
	"github.com/yildizm/PitchRoast/internal/logger"
)

// Build variables set by ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger.Preinit()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(version, commit, date)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
