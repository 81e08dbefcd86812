// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture writes framebuffer contents to image files.
//
// PNG, JPEG, TIFF and BMP captures are 8-bit and clamp to [0, 1]. EXR
// captures store the linear float values as half floats without clamping:
//
//	if err := capture.Save("frame.exr", dev, dev.Screen()); err != nil {
//		return err
//	}
package capture
