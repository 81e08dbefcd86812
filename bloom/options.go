// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bloom

import "github.com/gogpu/postfx/render"

// Option configures a Stage.
type Option func(*options)

type options struct {
	profiler  render.Profiler
	offscreen bool
}

// WithProfiler times the stage's passes under the Label* names.
func WithProfiler(p render.Profiler) Option {
	return func(o *options) {
		if p != nil {
			o.profiler = p
		}
	}
}

// WithOffscreenComposite writes the composite into a stage-owned target
// exposed by OutputTexture instead of the default target.
func WithOffscreenComposite() Option {
	return func(o *options) {
		o.offscreen = true
	}
}
