// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/postfx/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or none of the registered backends could open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend names.
const (
	NameWGPU     = "wgpu"
	NameSoftware = "software"
)

// Factory opens a device whose default framebuffer is width x height.
type Factory func(width, height int) (render.Device, error)
