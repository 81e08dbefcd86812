// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// RenderTarget owns one offscreen color + depth/stencil surface.
//
// The target is created eagerly at its full size and resized in place.
// ColorTexture returns the same Texture value for the whole lifetime of the
// target, so a stage can hand it to another stage once and keep resizing.
//
// Example:
//
//	rt, err := render.NewRenderTarget(dev, 1280, 720)
//	if err != nil {
//	    return err // incomplete attachments are not recoverable
//	}
//	defer rt.Close()
//
//	rt.Bind()
//	drawScene()
//	render.Unbind(dev)
type RenderTarget struct {
	dev    Device
	fb     Framebuffer
	width  int
	height int
}

// NewRenderTarget allocates a linear-filtered color attachment and a
// combined depth/stencil attachment of the given size.
//
// It returns an error wrapping ErrIncompleteFramebuffer when the backend
// rejects the attachment set.
func NewRenderTarget(dev Device, width, height int) (*RenderTarget, error) {
	width, height = clampSize(width, height)
	fb, err := dev.NewFramebuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("render: create framebuffer %dx%d: %w", width, height, err)
	}
	if err := fb.Complete(); err != nil {
		fb.Release()
		return nil, fmt.Errorf("render: framebuffer %dx%d: %w", width, height, err)
	}
	Logger().Debug("render target created", "backend", dev.Name(), "width", width, "height", height)
	return &RenderTarget{dev: dev, fb: fb, width: width, height: height}, nil
}

// Bind makes the target the draw destination and sets the viewport to its
// full size. It does nothing after Close.
func (t *RenderTarget) Bind() {
	if t.fb == nil {
		return
	}
	t.dev.BindFramebuffer(t.fb)
	t.dev.SetViewport(0, 0, t.width, t.height)
}

// Unbind restores the default target. The viewport is not touched: callers
// drawing to a window of a different size set it themselves.
func Unbind(dev Device) {
	dev.BindFramebuffer(nil)
}

// Resize reallocates both attachments. The target, its framebuffer and its
// color texture keep their identity. Sizes below 1 are clamped to 1.
// A closed target returns ErrClosed.
func (t *RenderTarget) Resize(width, height int) error {
	if t.fb == nil {
		return ErrClosed
	}
	width, height = clampSize(width, height)
	if width == t.width && height == t.height {
		return nil
	}
	if err := t.fb.Resize(width, height); err != nil {
		return fmt.Errorf("render: resize target to %dx%d: %w", width, height, err)
	}
	t.width, t.height = width, height
	return nil
}

// ColorTexture returns the color attachment for sampling in a later pass,
// or nil after Close.
func (t *RenderTarget) ColorTexture() Texture {
	if t.fb == nil {
		return nil
	}
	return t.fb.ColorTexture()
}

// Framebuffer returns the underlying attachment set.
func (t *RenderTarget) Framebuffer() Framebuffer { return t.fb }

// Size returns the current size in pixels.
func (t *RenderTarget) Size() (width, height int) { return t.width, t.height }

// Close releases the GPU storage. It is safe to call more than once.
func (t *RenderTarget) Close() {
	if t == nil || t.fb == nil {
		return
	}
	t.fb.Release()
	t.fb = nil
}

func clampSize(w, h int) (int, int) {
	return max(w, 1), max(h, 1)
}
