// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"github.com/gogpu/postfx/backend"
	"github.com/gogpu/postfx/render"
)

// Name is the registry name of this backend.
const Name = backend.NameSoftware

func init() {
	backend.Register(Name, func(width, height int) (render.Device, error) {
		return New(width, height), nil
	})
}
