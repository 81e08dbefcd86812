// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// fullscreenVertices is the vertex count of the fullscreen triangle pair.
const fullscreenVertices = 6

// Clear clears the selected planes of the bound framebuffer. Like glClear
// it ignores the viewport.
func (d *Device) Clear(c render.Color, mask render.ClearMask) {
	if d.closed || mask == 0 {
		return
	}
	fb := d.target()
	if fb.Complete() != nil {
		return
	}
	load := func(plane render.ClearMask) gputypes.LoadOp {
		if mask&plane != 0 {
			return gputypes.LoadOpClear
		}
		return gputypes.LoadOpLoad
	}
	encoder, ok := d.beginEncoder("postfx_clear")
	if !ok {
		return
	}
	desc := d.passDescriptor(fb, "postfx_clear", load(render.ClearColor), load(render.ClearDepth), load(render.ClearStencil))
	desc.ColorAttachments[0].ClearValue = gputypes.Color{
		R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A),
	}
	rp := encoder.BeginRenderPass(desc)
	rp.End()
	d.submit(encoder)
}

// DrawFullscreen draws the fullscreen triangle pair with the current
// program.
func (d *Device) DrawFullscreen() {
	p := d.current
	if p == nil {
		render.Logger().Warn("wgpu: draw without program")
		return
	}
	if isMesh(p.kind) {
		render.Logger().Warn("wgpu: program cannot draw fullscreen", "shader", p.kind)
		return
	}
	d.draw(p, nil)
}

// DrawMesh draws m with the current mesh program.
func (d *Device) DrawMesh(m *render.Mesh) {
	p := d.current
	if p == nil || m == nil || len(m.Indices) == 0 {
		return
	}
	if !isMesh(p.kind) {
		render.Logger().Warn("wgpu: program cannot draw meshes", "shader", p.kind)
		return
	}
	d.draw(p, m)
}

// draw records one render pass holding a single draw and submits it.
func (d *Device) draw(p *program, m *render.Mesh) {
	if d.closed {
		return
	}
	fb := d.target()
	if fb.Complete() != nil {
		return
	}
	x0, y0, x1, y1, ok := d.clipViewport(fb)
	if !ok {
		return
	}

	pipeline, err := d.pipeline(pipelineKey{kind: p.kind, depthTest: d.depthTest && m != nil})
	if err != nil {
		d.fail(err)
		return
	}
	var mb *meshBuffers
	if m != nil {
		if mb, err = d.meshBuffers(m); err != nil {
			d.fail(err)
			return
		}
	}
	uniforms, err := d.createAndUploadBuffer("postfx_uniforms", p.pack(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		d.fail(fmt.Errorf("uniform buffer: %w", err))
		return
	}
	group, err := d.bindGroup(p, uniforms)
	if err != nil {
		d.device.DestroyBuffer(uniforms)
		d.fail(fmt.Errorf("bind group: %w", err))
		return
	}
	transient := func() {
		d.device.DestroyBindGroup(group)
		d.device.DestroyBuffer(uniforms)
	}

	encoder, ok := d.beginEncoder("postfx_" + p.kind.String())
	if !ok {
		transient()
		return
	}
	rp := encoder.BeginRenderPass(d.passDescriptor(fb, p.kind.String(),
		gputypes.LoadOpLoad, gputypes.LoadOpLoad, gputypes.LoadOpLoad))

	// The viewport origin is bottom-left; WebGPU's is top-left.
	_, fbh := fb.Size()
	vp := d.viewport
	rp.SetViewport(float32(vp[0]), float32(fbh-vp[1]-vp[3]), float32(vp[2]), float32(vp[3]), 0, 1)
	rp.SetScissorRect(uint32(x0), uint32(fbh-y1), uint32(x1-x0), uint32(y1-y0)) //nolint:gosec // clipped to the framebuffer
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, group, nil)
	if mb != nil {
		rp.SetVertexBuffer(0, mb.vertices, 0)
		rp.SetIndexBuffer(mb.indices, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(mb.count, 1, 0, 0, 0)
	} else {
		rp.Draw(fullscreenVertices, 1, 0, 0)
	}
	rp.End()

	if !d.submit(encoder) {
		transient()
		return
	}
	d.retire(transient)
}

// passDescriptor describes a pass over fb's color and depth/stencil
// attachments. The active timer query, if any, gets timestamp writes.
func (d *Device) passDescriptor(fb *framebuffer, label string, color, depth, stencil gputypes.LoadOp) *hal.RenderPassDescriptor {
	return &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    fb.color.view,
			LoadOp:  color,
			StoreOp: gputypes.StoreOpStore,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              fb.depthView,
			DepthLoadOp:       depth,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     stencil,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
		TimestampWrites: d.timestampWrites(),
	}
}

// clipViewport intersects the viewport with the framebuffer bounds, in
// bottom-left pixel coordinates.
func (d *Device) clipViewport(fb *framebuffer) (x0, y0, x1, y1 int, ok bool) {
	vp := d.viewport
	if vp[2] <= 0 || vp[3] <= 0 {
		return 0, 0, 0, 0, false
	}
	w, h := fb.Size()
	x0, y0 = max(vp[0], 0), max(vp[1], 0)
	x1 = min(vp[0]+vp[2], w)
	y1 = min(vp[1]+vp[3], h)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}
