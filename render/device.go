// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"time"
)

// Common render errors.
var (
	// ErrIncompleteFramebuffer is returned when a backend cannot assemble a
	// usable color + depth/stencil attachment set. It is not recoverable:
	// callers abort construction instead of retrying.
	ErrIncompleteFramebuffer = errors.New("render: framebuffer is not complete")

	// ErrClosed is returned when a released resource or device is used.
	ErrClosed = errors.New("render: resource closed")

	// ErrUnknownShader is returned by NewProgram for an unsupported kind.
	ErrUnknownShader = errors.New("render: unknown shader kind")
)

// Device is the backend-neutral command interface the post-processing
// stages draw through.
//
// It is a small bind/clear/draw state machine. BindFramebuffer selects the
// destination (nil selects the default target returned by Screen),
// SetViewport and SetDepthTest configure fixed-function state, BindTexture
// fills sampler units, and DrawFullscreen / DrawMesh run the program most
// recently made current with Program.Use.
//
// Draw and clear calls do not return errors. A backend that fails to submit
// work records the first failure and reports it from Err, the same way a
// bufio.Writer defers write errors to Flush.
//
// A Device is used from a single goroutine.
type Device interface {
	// Name returns the backend identifier (e.g. "software", "wgpu").
	Name() string

	// NewFramebuffer allocates a color + depth/stencil framebuffer.
	NewFramebuffer(width, height int) (Framebuffer, error)

	// Screen returns the default (on-screen) framebuffer.
	Screen() Framebuffer

	// BindFramebuffer makes fb the draw destination. Nil selects Screen.
	// The viewport is left unchanged.
	BindFramebuffer(fb Framebuffer)

	// SetViewport sets the pixel rectangle draws are mapped to.
	SetViewport(x, y, width, height int)

	// SetDepthTest enables or disables depth testing and depth writes.
	SetDepthTest(enabled bool)

	// Clear clears the selected planes of the bound framebuffer.
	Clear(c Color, mask ClearMask)

	// BindTexture binds tex to a sampler unit. Nil unbinds.
	BindTexture(unit int, tex Texture)

	// NewProgram compiles the program for a shader kind.
	NewProgram(kind ShaderKind) (Program, error)

	// DrawFullscreen draws a screen-covering triangle pair with the
	// current program.
	DrawFullscreen()

	// DrawMesh draws an indexed triangle mesh with the current program.
	DrawMesh(m *Mesh)

	// NewTimerQuery creates a GPU elapsed-time query.
	NewTimerQuery() (TimerQuery, error)

	// ReadTexture copies a texture back to the CPU. It may block until
	// outstanding work finishes and is meant for captures and tests.
	ReadTexture(tex Texture) (*FloatImage, error)

	// Err returns the first deferred submission error, if any.
	Err() error

	// Close releases every resource owned by the device.
	Close()
}

// Framebuffer is a color + depth/stencil attachment set.
//
// Resize reallocates storage in place: the Framebuffer value and the
// Texture returned by ColorTexture keep their identity, so references held
// elsewhere stay valid.
type Framebuffer interface {
	// Size returns the attachment size in pixels.
	Size() (width, height int)

	// ColorTexture returns the sampled color attachment.
	ColorTexture() Texture

	// Complete reports ErrIncompleteFramebuffer when the attachments cannot
	// be used together.
	Complete() error

	// Resize reallocates both attachments.
	Resize(width, height int) error

	// Release frees the GPU storage. Further use is undefined.
	Release()
}

// Texture is a sampled 2D color image with linear filtering and no mipmaps.
type Texture interface {
	Size() (width, height int)
}

// TimerQuery measures GPU time between Begin and End.
//
// Result never blocks: it returns false until the GPU has produced the
// value. A query may be reused after its result has been collected.
type TimerQuery interface {
	Begin()
	End()
	Result() (time.Duration, bool)
	Release()
}

// ClearMask selects which planes Clear touches.
type ClearMask uint8

// Clear planes.
const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Black is opaque black, the clear color of every pass.
var Black = Color{0, 0, 0, 1}
