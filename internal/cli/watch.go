package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

// runWatch submits the pitch file, then re-submits it on every save until
// interrupted. Saves that arrive while a turn runs collapse into one.
func runWatch(ctx context.Context, a *app, printer *streamPrinter, filename string, report func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	target := filepath.Clean(filename)
	changes := make(chan struct{}, 1)
	changes <- struct{}{}

	a.logger.Info("watching pitch file", "file", target)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(changes)
		return runWatchLoop(ctx, watcher, target, changes)
	})

	g.Go(func() error {
		var last string
		for range changes {
			pitch, err := readPitchFile(target)
			if err != nil {
				a.logger.Warn("failed to read pitch file", "file", target, "error", err)
				continue
			}
			pitch = strings.TrimSpace(pitch)
			if pitch == "" || pitch == last {
				continue
			}
			last = pitch

			outcome, err := a.driver.Submit(ctx, pitch)
			printer.Finish()
			if err != nil {
				return oops.In("cli").Errorf("failed to submit: %w", err)
			}
			if ctx.Err() != nil {
				return nil
			}
			if outcome.Failed {
				a.logger.Warn("turn failed, waiting for the next save", "kind", outcome.Kind, "error", outcome.Err)
				continue
			}
			if err := report(); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// runWatchLoop forwards saves of target into changes until ctx ends
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, changes chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isSaveEvent(event, target) {
				continue
			}
			select {
			case changes <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// isSaveEvent reports whether event rewrote target. Editors often save by
// renaming a temp file over the original, which shows up as Create.
func isSaveEvent(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// createWatcher watches the directory holding filename
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filepath.Clean(filename))); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}
