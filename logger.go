// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"log/slog"

	"github.com/gogpu/postfx/render"
)

// SetLogger configures the logger for postfx and all its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used by postfx:
//   - [slog.LevelDebug]: stage creation, resizes, skipped profiler samples
//   - [slog.LevelInfo]: backend selected, settings reloaded
//   - [slog.LevelWarn]: recoverable problems (watcher errors, timestamp
//     fallback, bad settings files)
//
// Example:
//
//	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	render.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return render.Logger()
}
