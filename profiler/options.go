// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package profiler

// DefaultHistorySize is the number of samples averaged per counter.
const DefaultHistorySize = 60

// Option configures a Profiler.
type Option func(*options)

type options struct {
	history  int
	disabled bool
}

func defaultOptions() options {
	return options{history: DefaultHistorySize}
}

// WithHistorySize sets the ring size used by AvgMs. Values below 1 keep
// the default.
func WithHistorySize(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.history = n
		}
	}
}

// WithDisabled creates the profiler switched off. See SetEnabled.
func WithDisabled() Option {
	return func(o *options) {
		o.disabled = true
	}
}
