package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/yildizm/PitchRoast/internal/client"
	"github.com/yildizm/PitchRoast/internal/emoji"
)

func newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the analysis service is reachable",
		Long: `Call the service's liveness route and print its banner.

Examples:
  pitchroast ping
  pitchroast ping --api-url https://roast.example.com`,
		Args: cobra.NoArgs,
		RunE: runPing,
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := client.New(cfg.ClientConfig(userAgent))
	if err != nil {
		return oops.In("cli").Errorf("failed to create client: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, cfg.API.Timeout)
	defer cancel()

	start := time.Now()
	banner, err := c.Health(ctx)
	if err != nil {
		reason := "health check failed"
		switch {
		case client.IsNetworkError(err):
			reason = "is not reachable"
		case client.IsStatusError(err):
			reason = "answered with an error"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s\n", emoji.GetEmoji("error"), c.BaseURL(), reason)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is up (%s)\n", emoji.GetEmoji("success"), c.BaseURL(), time.Since(start).Round(time.Millisecond))
	if banner != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", banner)
	}
	return nil
}
