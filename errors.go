// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import "errors"

var (
	// ErrInvalidSettings is wrapped by Settings.Validate and the loaders.
	ErrInvalidSettings = errors.New("postfx: invalid settings")

	// ErrUnsupportedFormat is returned for settings files that are neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("postfx: unsupported settings format")

	// ErrClosed is returned by Frame after Close.
	ErrClosed = errors.New("postfx: pipeline closed")
)
