// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/postfx/backend"
	"github.com/gogpu/postfx/render"
)

// Name is the registry name of this backend.
const Name = backend.NameWGPU

func init() {
	backend.Register(Name, func(width, height int) (render.Device, error) {
		d, err := New(width, height)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
