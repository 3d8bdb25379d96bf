package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/absfs/staticcompress"
)

func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Compress, then recompress whenever files change",
		Long: "Run once, then watch the origin directory (source if set, else root) and run again " +
			"after eligible files change. Bursts of changes are coalesced by the debounce period.\n\n" +
			"Stops on SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd.OutOrStdout())
		},
	}
}

// watch runs until ctx is done. Failures of single runs are logged and
// watching goes on; configuration errors end it.
func (a *app) watch(ctx context.Context, out io.Writer) error {
	if err := a.watchRun(out); err != nil {
		return err
	}

	// Only used for its eligibility filter
	filter, err := staticcompress.New(staticcompress.NewDirStorage(a.cfg.Root), a.cfg.Policy(),
		staticcompress.WithLogger(a.log.Logger))
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher; %w", err)
	}
	defer w.Close()

	dir := a.cfg.OriginDir()
	if err := addTree(w, dir); err != nil {
		return fmt.Errorf("failed to watch %q; %w", dir, err)
	}
	a.log.Info("watching for changes", "dir", dir, "debounce", a.cfg.Watch.Debounce)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("watch stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						a.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !relevant(event) || !filter.IsAllowed(event.Name) {
				continue
			}
			a.log.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(a.cfg.Watch.Debounce)
			} else {
				timer.Reset(a.cfg.Watch.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Error("fsnotify error", "error", err)

		case <-fire:
			fire = nil
			if err := a.watchRun(out); err != nil {
				return err
			}
		}
	}
}

// watchRun is one run inside watch mode. Only configuration errors are
// returned.
func (a *app) watchRun(out io.Writer) error {
	_, err := a.runOnce(out, false)
	if errors.Is(err, staticcompress.ErrImproperlyConfigured) {
		return err
	}
	if err != nil {
		a.log.Warn("run failed", "error", err)
	}
	return nil
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

// addTree watches dir and every directory below it
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}
