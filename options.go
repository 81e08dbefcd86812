// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := postfx.New(dev, 800, 600,
//	    postfx.WithSettings(s),
//	    postfx.WithoutProfiling(),
//	)
type Option func(*pipelineOptions)

type pipelineOptions struct {
	settings  Settings
	profiling bool
	overBloom bool
}

func defaultOptions() pipelineOptions {
	return pipelineOptions{
		settings:  DefaultSettings(),
		profiling: true,
		overBloom: true,
	}
}

// WithSettings sets the initial settings. Invalid values are clamped.
func WithSettings(s Settings) Option {
	return func(o *pipelineOptions) {
		o.settings = s.Clamped()
	}
}

// WithoutProfiling creates the pipeline with its profiler switched off.
// It can be switched on later through Profiler().SetEnabled.
func WithoutProfiling() Option {
	return func(o *pipelineOptions) {
		o.profiling = false
	}
}

// WithRaysOverRawScene composites the god rays over the pre-bloom scene
// instead of the bloomed frame. Bloom then draws straight to the default
// target and the god ray composite replaces it.
func WithRaysOverRawScene() Option {
	return func(o *pipelineOptions) {
		o.overBloom = false
	}
}
