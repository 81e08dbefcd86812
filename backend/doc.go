// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend is the registry of render.Device implementations.
//
// Backends register a Factory from an init function and are selected at
// runtime by name or by priority:
//
//	import (
//		"github.com/gogpu/postfx/backend"
//		_ "github.com/gogpu/postfx/backend/software"
//		_ "github.com/gogpu/postfx/backend/wgpu"
//	)
//
//	dev, err := backend.Default(1280, 720) // wgpu when it opens, else software
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
// # Available Backends
//
//   - "software": CPU reference renderer (always available)
//   - "wgpu": GPU renderer over gogpu/wgpu HAL
package backend
