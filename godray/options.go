// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package godray

import "github.com/gogpu/postfx/render"

// Resolution scale bounds.
const (
	MinResolutionScale = 0.25
	MaxResolutionScale = 1.0
)

// Option configures a Stage.
type Option func(*options)

type options struct {
	scale    float32
	profiler render.Profiler
}

// WithResolutionScale runs the occlusion and radial passes at a fraction
// of the window size, clamped to [0.25, 1].
func WithResolutionScale(s float32) Option {
	return func(o *options) {
		o.scale = s
	}
}

// WithProfiler times the stage's passes under the Label* names.
func WithProfiler(p render.Profiler) Option {
	return func(o *options) {
		if p != nil {
			o.profiler = p
		}
	}
}
