// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchSettings reloads path whenever it changes and passes the result to
// apply. It blocks until ctx is done and then returns nil.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temporary file are handled. Files that fail to load
// are logged and skipped; apply only ever sees valid settings. apply runs
// on the watcher goroutine: Pipeline.SetSettings is safe to call there.
func WatchSettings(ctx context.Context, path string, apply func(Settings)) error {
	if _, err := FormatFor(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("postfx: watch settings: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("postfx: watch settings: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("postfx: watch settings: %w", err)
	}
	Logger().Debug("watching settings", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)) {
				continue
			}
			s, err := LoadSettings(abs)
			if err != nil {
				Logger().Warn("settings reload failed", "path", abs, "err", err)
				continue
			}
			Logger().Info("settings reloaded", "path", abs)
			apply(s)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("settings watcher error", "err", err)
		}
	}
}
