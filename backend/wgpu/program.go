// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/postfx/render"
)

// uniformSize is the size of every program's uniform buffer. It covers
// the largest block (three mat4 plus a vec3) and is a multiple of the
// minimum uniform offset alignment.
const uniformSize = 256

// program holds the uniforms of one shader kind. Values are packed into
// the WGSL Params block of the kind at draw time.
type program struct {
	render.Uniforms
	dev  *Device
	kind render.ShaderKind
}

func (p *program) Kind() render.ShaderKind { return p.kind }
func (p *program) Use()                    { p.dev.current = p }
func (p *program) Release()                {}

// textureUnits returns the units sampled as texture A and texture B.
// -1 means the binding is unused.
func (p *program) textureUnits() (a, b int) {
	switch p.kind {
	case render.ShaderScreen, render.ShaderBrightPass:
		return p.Unit("screenTexture"), -1
	case render.ShaderBlur:
		return p.Unit("image"), -1
	case render.ShaderBloomComposite:
		return p.Unit("scene"), p.Unit("bloomBlur")
	case render.ShaderRadialBlur:
		return p.Unit("occlusionTexture"), -1
	case render.ShaderGodRayComposite:
		return p.Unit("scene"), p.Unit("godRays")
	}
	return -1, -1
}

// pack lays the uniforms out following WGSL uniform address space rules.
func (p *program) pack() []byte {
	buf := make([]byte, uniformSize)
	switch p.kind {
	case render.ShaderBrightPass:
		v, _ := p.Float("threshold")
		putFloat(buf, 0, v)
	case render.ShaderBlur:
		v, _ := p.Int("horizontal")
		putInt(buf, 0, v)
	case render.ShaderBloomComposite:
		v, _ := p.Float("bloomStrength")
		putFloat(buf, 0, v)
	case render.ShaderGodRayComposite:
		v, _ := p.Float("godRayStrength")
		putFloat(buf, 0, v)
	case render.ShaderRadialBlur:
		light, _ := p.Vec2("lightScreenPos")
		putFloat(buf, 0, light[0])
		putFloat(buf, 4, light[1])
		for i, name := range []string{"exposure", "decay", "density", "weight"} {
			v, _ := p.Float(name)
			putFloat(buf, 8+4*i, v)
		}
		n, _ := p.Int("numSamples")
		putInt(buf, 24, n)
	case render.ShaderOcclusion, render.ShaderUnlit:
		view, _ := p.Mat4("view")
		proj, _ := p.Mat4("projection")
		model, _ := p.Mat4("model")
		putMat4(buf, 0, view)
		putMat4(buf, 64, proj)
		putMat4(buf, 128, model)
		if p.kind == render.ShaderOcclusion {
			orb, _ := p.Int("isOrb")
			putInt(buf, 192, orb)
			break
		}
		c, ok := p.Vec3("color")
		if !ok {
			c = mgl32.Vec3{1, 1, 1}
		}
		for i, v := range c {
			putFloat(buf, 192+4*i, v)
		}
	}
	return buf
}

func putFloat(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putInt(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v)) //nolint:gosec // two's complement bit pattern
}

// putMat4 writes m column-major, matching mat4x4<f32>.
func putMat4(buf []byte, off int, m mgl32.Mat4) {
	for i, v := range m {
		putFloat(buf, off+4*i, v)
	}
}

// encodePositions packs mesh positions as tightly packed vec3<f32>.
func encodePositions(m *render.Mesh) []byte {
	buf := make([]byte, len(m.Positions)*meshVertexStride)
	for i, p := range m.Positions {
		putFloat(buf, i*meshVertexStride, p[0])
		putFloat(buf, i*meshVertexStride+4, p[1])
		putFloat(buf, i*meshVertexStride+8, p[2])
	}
	return buf
}

func encodeIndices(m *render.Mesh) []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
