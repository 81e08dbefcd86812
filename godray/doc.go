// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package godray implements screen-space light scattering ("god rays").
//
// The stage draws the occluding geometry into a mask where the light's
// own mesh is white and everything else black, smears the mask radially
// toward the light's screen position and adds the result over the scene.
// Both intermediate targets may run below window resolution.
//
// What a frame does is decided up front by Plan from the debug mode and
// the projected light, so callers and tests can reason about the pass
// sequence without a device.
package godray
