// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Device.
type Option func(*options)

type options struct {
	spirv    bool
	api      hal.Backend
	variants []gputypes.Backend
}

// defaultVariants is the adapter search order of New.
var defaultVariants = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// WithSPIRV compiles shaders to SPIR-V with naga before handing them to
// the HAL. Without it the HAL receives WGSL.
func WithSPIRV() Option {
	return func(o *options) {
		o.spirv = true
	}
}

// WithBackends sets the HAL backends New tries, in order.
func WithBackends(variants ...gputypes.Backend) Option {
	return func(o *options) {
		o.variants = variants
	}
}

// WithHAL makes New open its adapter from api instead of the registered
// HAL backends.
func WithHAL(api hal.Backend) Option {
	return func(o *options) {
		o.api = api
	}
}
