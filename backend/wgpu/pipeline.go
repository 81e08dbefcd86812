// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// Bind group layout shared by every program:
//
//	@binding(0) uniform block (program parameters)
//	@binding(1) texture A
//	@binding(2) texture B
//	@binding(3) linear clamp-to-edge sampler
const (
	bindingUniforms = 0
	bindingTexA     = 1
	bindingTexB     = 2
	bindingSampler  = 3
)

// meshVertexStride is the byte stride of a mesh vertex: position vec3<f32>.
const meshVertexStride = 12

// pipelineKey identifies a render pipeline variant.
type pipelineKey struct {
	kind      render.ShaderKind
	depthTest bool
}

// createShared builds the bind group layout, pipeline layout, sampler and
// the 1x1 black texture bound to unused units.
func (d *Device) createShared() error {
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "postfx_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindingUniforms,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    bindingTexA,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    bindingTexB,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    bindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	d.layout = layout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "postfx_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.layout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "postfx_linear_clamp",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	d.sampler = sampler

	return d.createDummy()
}

func (d *Device) createDummy() error {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "postfx_black",
		Size:          hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create black texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "postfx_black_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return fmt.Errorf("create black texture view: %w", err)
	}
	d.dummy = &texture{dev: d, tex: tex, view: view, w: 1, h: 1}

	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		[]byte{0, 0, 0, 255},
		&hal.ImageDataLayout{BytesPerRow: 4, RowsPerImage: 1},
		&hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload black texture: %w", err)
	}
	return nil
}

// probeTimestamps reports whether the device can create timestamp query
// sets.
func (d *Device) probeTimestamps() bool {
	qs, err := d.device.CreateQuerySet(&hal.QuerySetDescriptor{
		Label: "postfx_timestamp_probe",
		Type:  hal.QueryTypeTimestamp,
		Count: 2,
	})
	if err != nil {
		if errors.Is(err, hal.ErrTimestampsNotSupported) {
			render.Logger().Warn("wgpu: timestamp queries unavailable, timing submissions instead")
		} else {
			render.Logger().Warn("wgpu: timestamp probe failed", "err", err)
		}
		return false
	}
	d.device.DestroyQuerySet(qs)
	return true
}

// shader returns the compiled module for kind, compiling it on first use.
func (d *Device) shader(kind render.ShaderKind) (hal.ShaderModule, error) {
	if m, ok := d.shaders[kind]; ok {
		return m, nil
	}
	src, err := ShaderSource(kind)
	if err != nil {
		return nil, err
	}
	source := hal.ShaderSource{WGSL: src}
	if d.spirv {
		words, err := compileSPIRV(src)
		if err != nil {
			return nil, fmt.Errorf("%v shader: %w", kind, err)
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	m, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "postfx_" + kind.String(),
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("compile %v shader: %w", kind, err)
	}
	d.shaders[kind] = m
	render.Logger().Debug("wgpu: shader compiled", "shader", kind, "spirv", d.spirv)
	return m, nil
}

// pipeline returns the cached render pipeline for key.
func (d *Device) pipeline(key pipelineKey) (hal.RenderPipeline, error) {
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}
	module, err := d.shader(key.kind)
	if err != nil {
		return nil, err
	}

	var buffers []gputypes.VertexBufferLayout
	if isMesh(key.kind) {
		buffers = []gputypes.VertexBufferLayout{{
			ArrayStride: meshVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
			},
		}}
	}

	depth := &hal.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keepStencil(),
		StencilBack:       keepStencil(),
	}
	if key.depthTest {
		depth.DepthWriteEnabled = true
		depth.DepthCompare = gputypes.CompareFunctionLess
	}

	p, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("postfx_%v_depth%v", key.kind, key.depthTest),
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    colorFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		DepthStencil: depth,
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %v pipeline: %w", key.kind, err)
	}
	d.pipelines[key] = p
	return p, nil
}

func keepStencil() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// meshBuffers holds the uploaded vertex and index buffers of one mesh.
type meshBuffers struct {
	vertices hal.Buffer
	indices  hal.Buffer
	count    uint32
}

func (m *meshBuffers) destroy(device hal.Device) {
	if m.indices != nil {
		device.DestroyBuffer(m.indices)
	}
	if m.vertices != nil {
		device.DestroyBuffer(m.vertices)
	}
}

// meshBuffers uploads m on first use. Buffers are cached by pointer for
// the life of the device.
func (d *Device) meshBuffers(m *render.Mesh) (*meshBuffers, error) {
	if mb, ok := d.meshes[m]; ok {
		return mb, nil
	}
	vb, err := d.createAndUploadBuffer("postfx_mesh_vertices", encodePositions(m),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("mesh %q vertices: %w", m.Label, err)
	}
	ib, err := d.createAndUploadBuffer("postfx_mesh_indices", encodeIndices(m),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		d.device.DestroyBuffer(vb)
		return nil, fmt.Errorf("mesh %q indices: %w", m.Label, err)
	}
	mb := &meshBuffers{vertices: vb, indices: ib, count: uint32(len(m.Indices))} //nolint:gosec // index count fits uint32
	d.meshes[m] = mb
	render.Logger().Debug("wgpu: mesh uploaded", "mesh", m.Label, "triangles", m.TriangleCount())
	return mb, nil
}

// createAndUploadBuffer creates a buffer sized to data (rounded up to 4
// bytes) and writes data into it.
func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := (uint64(len(data)) + 3) &^ 3
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  max(size, 4),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, err
	}
	return buf, nil
}

// bindGroup binds the uniform buffer and the program's sampled textures.
func (d *Device) bindGroup(p *program, uniforms hal.Buffer) (hal.BindGroup, error) {
	a, b := p.textureUnits()
	return d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "postfx_bind_" + p.kind.String(),
		Layout: d.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: bindingUniforms, Resource: gputypes.BufferBinding{
				Buffer: uniforms.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: bindingTexA, Resource: gputypes.TextureViewBinding{
				TextureView: d.unit(a).view.NativeHandle(),
			}},
			{Binding: bindingTexB, Resource: gputypes.TextureViewBinding{
				TextureView: d.unit(b).view.NativeHandle(),
			}},
			{Binding: bindingSampler, Resource: gputypes.SamplerBinding{
				Sampler: d.sampler.NativeHandle(),
			}},
		},
	})
}
