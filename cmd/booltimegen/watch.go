package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events editors emit for one save.
const debounce = 100 * time.Millisecond

// watchFile calls fn whenever path is written or replaced, until ctx is done.
// The parent directory is watched so that atomic renames are seen.
func watchFile(ctx context.Context, path string, log *slog.Logger, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.InfoContext(ctx, "watching configuration", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WarnContext(ctx, "watch error", "error", err)
		case <-timer.C:
			log.InfoContext(ctx, "configuration changed", "path", abs)
			if err := fn(ctx); err != nil {
				log.ErrorContext(ctx, "generation failed", "error", err)
			}
		}
	}
}
