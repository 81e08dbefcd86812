// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements render.Device on the gogpu/wgpu HAL.
//
// The device draws with WGSL render pipelines, one per shader kind and
// depth mode, sharing a single bind group layout:
//
//	@group(0) @binding(0) var<uniform> params: Params;   // per-kind block
//	@group(0) @binding(1) var tex_a: texture_2d<f32>;
//	@group(0) @binding(2) var tex_b: texture_2d<f32>;
//	@group(0) @binding(3) var samp: sampler;           // linear, clamp-to-edge
//
// Framebuffers pair an RGBA8Unorm color texture with a
// Depth24PlusStencil8 attachment. Shaders keep the OpenGL conventions of
// the render package: texture coordinates and viewports have their origin
// at the bottom-left and mesh programs take GL clip-space depth.
//
// # Opening a device
//
// New enumerates adapters from the registered HAL backends:
//
//	import (
//		_ "github.com/gogpu/wgpu/hal/allbackends"
//
//		"github.com/gogpu/postfx/backend/wgpu"
//	)
//
//	dev, err := wgpu.New(1280, 720)
//
// Applications that already own a device (for example a gogpu window)
// pass it through NewFromProvider instead.
//
// # Shaders
//
// Shaders are WGSL embedded in the binary. WithSPIRV compiles them with
// naga first, for HAL backends that only consume SPIR-V.
//
// # Timing
//
// Timer queries use GPU timestamps when the adapter supports them and
// fall back to timing submissions otherwise; see Device.Timestamps.
package wgpu
