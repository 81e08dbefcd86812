// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package postfx is a multi-pass offscreen post-processing pipeline:
// bloom followed by screen-space god rays, with per-pass GPU timing.
//
// # Overview
//
// A Pipeline owns a bloom stage, a god ray stage and a frame profiler on
// one render.Device. Each Frame renders the caller's scene into an
// offscreen target, blooms it, adds light shafts from a single light and
// leaves the result on the device's default target:
//
//	dev := backend.MustOpen(software.Name, 1280, 720)
//	defer dev.Close()
//
//	p, err := postfx.New(dev, 1280, 720)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	out, err := p.Frame(postfx.Scene{
//	    Draw:       drawScene,
//	    Objects:    objects,
//	    LightIndex: orb,
//	    Light:      lightPos,
//	    View:       view,
//	    Projection: proj,
//	})
//
// # Backends
//
// Devices come from the backend registry. Importing a backend package
// registers it:
//
//	import _ "github.com/gogpu/postfx/backend/software" // CPU reference
//	import _ "github.com/gogpu/postfx/backend/wgpu"     // GPU via gogpu/wgpu
//
// # Settings
//
// Effect parameters live in Settings, which can be loaded from TOML or
// YAML and hot-reloaded with WatchSettings. New settings take effect at
// the start of the next frame.
//
// # Logging
//
// postfx is silent by default. SetLogger enables structured logging for
// the pipeline, its stages and the backends.
package postfx
