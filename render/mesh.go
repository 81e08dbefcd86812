// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list in object space.
//
// Meshes belong to the caller. Backends may cache GPU buffers keyed by the
// *Mesh pointer, so a mesh must not be mutated after its first draw.
type Mesh struct {
	Label     string
	Positions []mgl32.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// NewCube returns an axis-aligned cube centered at the origin.
func NewCube(size float32) *Mesh {
	h := size / 2
	p := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	idx := []uint32{
		4, 5, 6, 4, 6, 7, // +z
		1, 0, 3, 1, 3, 2, // -z
		5, 1, 2, 5, 2, 6, // +x
		0, 4, 7, 0, 7, 3, // -x
		7, 6, 2, 7, 2, 3, // +y
		0, 1, 5, 0, 5, 4, // -y
	}
	return &Mesh{Label: "cube", Positions: p, Indices: idx}
}

// NewPlane returns a square in the XZ plane facing +Y.
func NewPlane(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Label: "plane",
		Positions: []mgl32.Vec3{
			{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// NewSphere returns a UV sphere. rings and sectors are clamped to at
// least 3.
func NewSphere(radius float32, rings, sectors int) *Mesh {
	rings = max(rings, 3)
	sectors = max(sectors, 3)

	pos := make([]mgl32.Vec3, 0, (rings+1)*(sectors+1))
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := math.Cos(phi)
		s := math.Sin(phi)
		for c := 0; c <= sectors; c++ {
			theta := 2 * math.Pi * float64(c) / float64(sectors)
			pos = append(pos, mgl32.Vec3{
				radius * float32(s*math.Cos(theta)),
				radius * float32(y),
				radius * float32(s*math.Sin(theta)),
			})
		}
	}

	idx := make([]uint32, 0, rings*sectors*6)
	stride := uint32(sectors + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for c := uint32(0); c < uint32(sectors); c++ {
			a := r*stride + c
			b := a + stride
			idx = append(idx, a, b, a+1, a+1, b, b+1)
		}
	}
	return &Mesh{Label: "sphere", Positions: pos, Indices: idx}
}
