// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Profiler brackets named GPU regions. Stages call it around each pass;
// profiler.Profiler is the real implementation.
type Profiler interface {
	Begin(name string)
	End(name string)
}

// NopProfiler discards every region.
type NopProfiler struct{}

func (NopProfiler) Begin(string) {}
func (NopProfiler) End(string)   {}
