// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// copyPitchAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyPitchAlignment = 256

// ReadTexture copies tex into a staging buffer, waits for the GPU and
// converts the RGBA8 texels to a top-down FloatImage.
func (d *Device) ReadTexture(tex render.Texture) (*render.FloatImage, error) {
	t, ok := tex.(*texture)
	if !ok || t == nil {
		return nil, fmt.Errorf("wgpu: read texture: not a wgpu texture")
	}
	if d.closed || t.tex == nil {
		return nil, fmt.Errorf("wgpu: read texture: %w", render.ErrClosed)
	}

	w, h := uint32(t.w), uint32(t.h) //nolint:gosec // texture sizes are positive
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "postfx_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, ok := d.beginEncoder("postfx_readback")
	if !ok {
		return nil, d.err
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if !d.submit(encoder) {
		return nil, d.err
	}
	if err := d.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	d.reclaim()

	m, err := d.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	data := unsafe.Slice((*byte)(m.Ptr), stagingSize)

	// Texture rows are stored top-down, matching FloatImage.
	img := render.NewFloatImage(t.w, t.h)
	for y := 0; y < t.h; y++ {
		src := data[y*int(alignedBytesPerRow):]
		dst := img.Pix[y*t.w*4 : (y+1)*t.w*4]
		for i := range dst {
			dst[i] = float32(src[i]) / 255
		}
	}
	if err := d.device.UnmapBuffer(staging); err != nil {
		render.Logger().Warn("wgpu: unmap staging buffer", "err", err)
	}
	return img, nil
}
