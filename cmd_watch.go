package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

)

// watchDebounce collapses the burst of events one save usually produces.
const watchDebounce = 100 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file.bench> <file.switch>",
		Short: "Reload a .switch file every time it changes",
		Long: `Load the .switch file, then load it again after every write until
interrupted. Each load prints a summary or the error that rejected the file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.parser.ParseFile(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return watchFile(ctx, args[1], func() {
				t, err := a.codec.Load(c, args[1])
				if err != nil {
					fmt.Fprintf(out, "rejected: %v\n", err)
					return
				}
				printSummary(out, c, t)
			})
		},
	}
}

// watchFile calls reload once, then again whenever path is written or
// replaced, until ctx is done. The parent directory is watched so that
// editors and writers that rename a new file into place are seen.
func watchFile(ctx context.Context, path string, reload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	reload()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", path, err)
		case <-timer.C:
			reload()
		}
	}
}
