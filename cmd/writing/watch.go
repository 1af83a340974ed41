package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	writingcmd "github.com/goliatone/go-writing/internal/commands/writing"
	"github.com/goliatone/go-writing/internal/logging"
	"github.com/goliatone/go-writing/pkg/interfaces"
)

const defaultDebounce = 300 * time.Millisecond

func newWatchCommand(a *app) *cobra.Command {
	msg := writingcmd.CheckContentCommand{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the content check whenever the content root changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := a.resources.logger

			if err := a.runCheck(ctx, msg); err != nil {
				logger.Error("writing.cli.watch.check_failed", "error", err)
			}
			return watchContent(ctx, a.resources.contentDir, debounce, logger, func(events []string) {
				logging.WithFields(logger, map[string]any{"changes": len(events)}).Info("writing.cli.watch.changed")
				if err := a.runCheck(ctx, msg); err != nil {
					logger.Error("writing.cli.watch.check_failed", "error", err)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-running the check")
	cmd.Flags().BoolVar(&msg.FailOnFallback, "fail-on-fallback", false, "report math fallbacks as check failures")
	return cmd
}

// watchContent blocks until ctx is done, calling onChange with the paths touched
// during each quiet period.
func watchContent(ctx context.Context, root string, debounce time.Duration, logger interfaces.Logger, onChange func([]string)) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("content root %s does not exist", root)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("content root %s is not a directory", root)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, root); err != nil {
		return err
	}
	logging.WithFields(logger, map[string]any{"root": root}).Info("writing.cli.watch.started")

	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if stat, statErr := os.Stat(event.Name); statErr == nil && stat.IsDir() {
					if addErr := addTree(watcher, event.Name); addErr != nil {
						logger.Warn("writing.cli.watch.add_failed", "path", event.Name, "error", addErr)
					}
				}
			}
			pending = append(pending, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			changed := pending
			pending = nil
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("writing.cli.watch.error", "error", watchErr)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
