// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software is the CPU reference implementation of render.Device.
//
// Every built-in shader kind has a Go kernel with the same math as the
// WGSL used by the wgpu backend: Rec. 709 bright-pass, 9-tap separable
// Gaussian blur, additive composites, flat occlusion and unlit meshes, and
// the exponential-decay radial blur. Draws are split into row bands that
// run in parallel with errgroup.
//
// The package registers itself with the backend registry as "software":
//
//	import _ "github.com/gogpu/postfx/backend/software"
//
// It is also used directly by tests that need to read pixels back:
//
//	dev := software.New(64, 64)
//	defer dev.Close()
package software
