// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package profiler measures per-pass GPU time with timer queries.
//
// A Profiler keeps one named counter per pass. Begin and End bracket the
// pass on the render goroutine; Update, called once per frame, collects
// whatever results the backend has ready without waiting. Results usually
// arrive a frame or two after the pass ran.
//
//	prof := profiler.New(dev)
//	defer prof.Close()
//
//	prof.Begin("1. Scene")
//	drawScene()
//	prof.End("1. Scene")
//	prof.Update()
//
//	if ms, ok := prof.AvgMs("1. Scene"); ok {
//	    fmt.Printf("scene: %.2f ms\n", ms)
//	}
//
// Profiler implements render.Profiler, so it can be handed to the bloom
// and god ray stages directly.
package profiler
