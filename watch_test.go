// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fx.yaml")
	if err := SaveSettings(path, DefaultSettings()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Settings, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchSettings(ctx, path, func(s Settings) { got <- s })
	}()

	want := DefaultSettings()
	want.Bloom.Strength = 2.5

	// The watcher may not be registered yet; keep rewriting until it
	// reports.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(10 * time.Second)
	var s Settings
wait:
	for {
		select {
		case s = <-got:
			if s == want {
				break wait
			}
		case <-tick.C:
			if err := SaveSettings(path, want); err != nil {
				t.Fatal(err)
			}
		case <-timeout:
			t.Fatal("no reload within 10s")
		}
	}

	// Broken files are skipped, not applied.
	if err := os.WriteFile(path, []byte("godray: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-got:
		if s.Validate() != nil {
			t.Errorf("invalid settings applied: %+v", s)
		}
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchSettings() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchSettings did not return after cancel")
	}
}

func TestWatchSettingsUnsupported(t *testing.T) {
	err := WatchSettings(context.Background(), "fx.ini", func(Settings) {})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WatchSettings(.ini) = %v", err)
	}
}
