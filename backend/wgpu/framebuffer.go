// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// Attachment formats.
const (
	colorFormat = gputypes.TextureFormatRGBA8Unorm
	depthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// texture wraps a sampled HAL texture. Resizing swaps tex and view; the
// *texture itself stays the same.
type texture struct {
	dev  *Device
	tex  hal.Texture
	view hal.TextureView
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) destroy() {
	if t.view != nil {
		t.dev.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.dev.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// attachments is one allocation of a framebuffer's storage.
type attachments struct {
	color     hal.Texture
	colorView hal.TextureView
	depth     hal.Texture
	depthView hal.TextureView
}

func (a attachments) destroy(device hal.Device) {
	if a.depthView != nil {
		device.DestroyTextureView(a.depthView)
	}
	if a.depth != nil {
		device.DestroyTexture(a.depth)
	}
	if a.colorView != nil {
		device.DestroyTextureView(a.colorView)
	}
	if a.color != nil {
		device.DestroyTexture(a.color)
	}
}

type framebuffer struct {
	dev       *Device
	label     string
	color     *texture
	depth     hal.Texture
	depthView hal.TextureView
	released  bool
}

func (d *Device) newFramebuffer(label string, width, height int) (*framebuffer, error) {
	a, err := d.createAttachments(label, width, height)
	if err != nil {
		return nil, err
	}
	fb := &framebuffer{dev: d, label: label, color: &texture{dev: d}}
	fb.attach(a, width, height)
	d.live += 2
	render.Logger().Debug("wgpu: framebuffer created", "label", label, "width", width, "height", height)
	return fb, nil
}

// createAttachments allocates a color + depth/stencil pair. A failure on
// either attachment is reported as render.ErrIncompleteFramebuffer.
func (d *Device) createAttachments(label string, width, height int) (attachments, error) {
	var a attachments
	size := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1} //nolint:gosec // sizes validated by callers

	var err error
	a.color, err = d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return a, fmt.Errorf("%w: color texture: %w", render.ErrIncompleteFramebuffer, err)
	}
	a.colorView, err = d.device.CreateTextureView(a.color, &hal.TextureViewDescriptor{
		Label:         label + "_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.destroy(d.device)
		return attachments{}, fmt.Errorf("%w: color view: %w", render.ErrIncompleteFramebuffer, err)
	}

	a.depth, err = d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		a.destroy(d.device)
		return attachments{}, fmt.Errorf("%w: depth/stencil texture: %w", render.ErrIncompleteFramebuffer, err)
	}
	a.depthView, err = d.device.CreateTextureView(a.depth, &hal.TextureViewDescriptor{
		Label:         label + "_depth_view",
		Format:        depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.destroy(d.device)
		return attachments{}, fmt.Errorf("%w: depth/stencil view: %w", render.ErrIncompleteFramebuffer, err)
	}
	return a, nil
}

func (f *framebuffer) attach(a attachments, width, height int) {
	f.color.tex, f.color.view = a.color, a.colorView
	f.color.w, f.color.h = width, height
	f.depth, f.depthView = a.depth, a.depthView
}

func (f *framebuffer) detach() attachments {
	a := attachments{
		color:     f.color.tex,
		colorView: f.color.view,
		depth:     f.depth,
		depthView: f.depthView,
	}
	f.color.tex, f.color.view = nil, nil
	f.depth, f.depthView = nil, nil
	return a
}

func (f *framebuffer) Size() (int, int) { return f.color.w, f.color.h }

func (f *framebuffer) ColorTexture() render.Texture { return f.color }

func (f *framebuffer) Complete() error {
	if f.released || f.color.view == nil || f.depthView == nil {
		return render.ErrIncompleteFramebuffer
	}
	return nil
}

// Resize allocates new attachments and retires the old ones. On failure
// the framebuffer keeps its previous storage.
func (f *framebuffer) Resize(width, height int) error {
	if f.released {
		return render.ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid framebuffer size %dx%d", width, height)
	}
	if w, h := f.Size(); w == width && h == height {
		return nil
	}
	a, err := f.dev.createAttachments(f.label, width, height)
	if err != nil {
		return err
	}
	old := f.detach()
	f.dev.retire(func() { old.destroy(f.dev.device) })
	f.attach(a, width, height)
	return nil
}

func (f *framebuffer) Release() {
	if f.released {
		return
	}
	f.released = true
	old := f.detach()
	if f.dev.closed {
		old.destroy(f.dev.device)
	} else {
		f.dev.retire(func() { old.destroy(f.dev.device) })
	}
	f.dev.live -= 2
}
