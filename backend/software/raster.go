// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/postfx/render"
)

// nearW drops triangles with a vertex at or behind the eye plane. The
// rasterizer does not clip against the near plane.
const nearW = 1e-5

// parallelRows runs row for every y in [y0, y1), split into contiguous
// bands, one goroutine per band. Each band owns its rows exclusively.
// A band that panics stops early and its panic is returned as an error.
func (d *Device) parallelRows(y0, y1 int, row func(y int)) error {
	n := y1 - y0
	if n <= 0 {
		return nil
	}
	bands := min(d.workers, n)
	if bands <= 1 {
		return runBand(y0, y1, row)
	}
	step := (n + bands - 1) / bands
	var g errgroup.Group
	for lo := y0; lo < y1; lo += step {
		hi := min(lo+step, y1)
		g.Go(func() error { return runBand(lo, hi, row) })
	}
	return g.Wait()
}

func runBand(lo, hi int, row func(y int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("software: rows %d-%d: %v", lo, hi, r)
		}
	}()
	for y := lo; y < hi; y++ {
		row(y)
	}
	return nil
}

// windowVertex is a vertex after projection and viewport mapping.
type windowVertex struct {
	x, y, z float32
	ok      bool
}

// DrawMesh rasterizes m with the current mesh program. Both windings are
// drawn; depth testing follows SetDepthTest.
func (d *Device) DrawMesh(m *render.Mesh) {
	p := d.current
	if p == nil || m == nil {
		return
	}
	color, ok := meshColor(p)
	if !ok {
		render.Logger().Warn("software: program cannot draw meshes", "shader", p.kind)
		return
	}
	fb := d.target()
	x0, y0, x1, y1, ok := d.clipViewport(fb)
	if !ok {
		return
	}

	view, _ := p.Mat4("view")
	proj, _ := p.Mat4("projection")
	model, _ := p.Mat4("model")
	verts := d.project(m.Positions, proj.Mul4(view).Mul4(model))

	tris := make([][3]windowVertex, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if ia >= len(verts) || ib >= len(verts) || ic >= len(verts) {
			continue
		}
		t := [3]windowVertex{verts[ia], verts[ib], verts[ic]}
		if !t[0].ok || !t[1].ok || !t[2].ok {
			continue
		}
		tris = append(tris, t)
	}

	depthTest := d.depthTest
	d.fail(d.parallelRows(y0, y1, func(y int) {
		py := float32(y) + 0.5
		for _, t := range tris {
			rasterRow(fb, t, y, py, x0, x1, color, depthTest)
		}
	}))
}

func (d *Device) project(pos []mgl32.Vec3, mvp mgl32.Mat4) []windowVertex {
	vx, vy := float32(d.viewport[0]), float32(d.viewport[1])
	vw, vh := float32(d.viewport[2]), float32(d.viewport[3])
	out := make([]windowVertex, len(pos))
	for i, p := range pos {
		c := mvp.Mul4x1(p.Vec4(1))
		if c[3] <= nearW {
			continue
		}
		nx, ny, nz := c[0]/c[3], c[1]/c[3], c[2]/c[3]
		out[i] = windowVertex{
			x:  vx + (nx+1)*0.5*vw,
			y:  vy + (ny+1)*0.5*vh,
			z:  (nz + 1) * 0.5,
			ok: true,
		}
	}
	return out
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// rasterRow fills the pixels of row y covered by triangle t.
func rasterRow(fb *framebuffer, t [3]windowVertex, y int, py float32, x0, x1 int, color vec4, depthTest bool) {
	a, b, c := t[0], t[1], t[2]
	if py < min(a.y, b.y, c.y) || py > max(a.y, b.y, c.y) {
		return
	}
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	lo := max(x0, int(min(a.x, b.x, c.x)))
	hi := min(x1, int(max(a.x, b.x, c.x))+1)
	inv := 1 / area
	w := fb.color.w
	for x := lo; x < hi; x++ {
		px := float32(x) + 0.5
		w0 := edge(b.x, b.y, c.x, c.y, px, py) * inv
		w1 := edge(c.x, c.y, a.x, a.y, px, py) * inv
		w2 := edge(a.x, a.y, b.x, b.y, px, py) * inv
		if w0 < 0 || w1 < 0 || w2 < 0 {
			continue
		}
		z := w0*a.z + w1*b.z + w2*c.z
		if z < 0 || z > 1 {
			continue
		}
		if depthTest {
			i := y*w + x
			if z >= fb.depth[i] {
				continue
			}
			fb.depth[i] = z
		}
		fb.color.store(x, y, color)
	}
}
