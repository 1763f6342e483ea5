// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch monitors an inbox directory and hands newly arrived plot
// imagery to a handler. Files are only picked up after they have been
// quiet for a settle interval, since imagery lands over slow links and a
// half-written TIFF decodes badly.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/cct-datascience/drone-pipeline/internal/imagery"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// DefaultSettle is the quiet interval used when the configuration leaves
// it unset.
const DefaultSettle = 2 * time.Second

// Handler processes one settled image file. Errors are reported on the
// watch log and do not stop the watch loop.
type Handler func(ctx context.Context, path string) error

// Run watches cfg.InboxDir until ctx is cancelled. Image files passing
// the include glob (when non-empty) are handed to handler once settled.
func Run(ctx context.Context, cfg types.WatchConfig, include string, handler Handler, log io.Writer) error {
	settle := cfg.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	var matcher glob.Glob
	if include != "" {
		var err error
		matcher, err = glob.Compile(include)
		if err != nil {
			return fmt.Errorf("compiling include pattern %q: %w", include, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.InboxDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.InboxDir, err)
	}
	fmt.Fprintf(log, "watching %s\n", cfg.InboxDir)

	// pending maps a path to the time of its last write event.
	pending := map[string]time.Time{}
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !imagery.IsImagePath(event.Name) {
				continue
			}
			if matcher != nil && !matcher.Match(filepath.Base(event.Name)) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(log, "warning: watch error: %v\n", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				fmt.Fprintf(log, "processing %s\n", path)
				if err := handler(ctx, path); err != nil {
					fmt.Fprintf(log, "failed:  %s (%v)\n", path, err)
				}
			}
		}
	}
}
