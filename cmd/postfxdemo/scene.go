// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/godray"
	"github.com/gogpu/postfx/render"
)

// demoScene is a ring of pillars on a floor with an orbiting light orb.
type demoScene struct {
	dev     render.Device
	program render.Program

	floor  *render.Mesh
	pillar *render.Mesh
	orb    *render.Mesh

	objects []godray.Object
}

const (
	pillarCount = 6
	ringRadius  = 2.5
)

var (
	floorColor  = mgl32.Vec3{0.15, 0.15, 0.18}
	pillarColor = mgl32.Vec3{0.35, 0.3, 0.25}
	orbColor    = mgl32.Vec3{1, 0.95, 0.8}
)

func newScene(dev render.Device) (*demoScene, error) {
	p, err := dev.NewProgram(render.ShaderUnlit)
	if err != nil {
		return nil, err
	}
	return &demoScene{
		dev:     dev,
		program: p,
		floor:   render.NewPlane(12),
		pillar:  render.NewCube(1),
		orb:     render.NewSphere(0.5, 12, 16),
		objects: make([]godray.Object, 0, pillarCount+1),
	}, nil
}

func (s *demoScene) release() {
	s.program.Release()
}

// lightPosition moves the orb around a circle behind the pillars; t is the
// animation time in [0, 1).
func lightPosition(t float32) mgl32.Vec3 {
	a := 2 * math32.Pi * t
	return mgl32.Vec3{3 * math32.Sin(a), 2 + 0.5*math32.Sin(2*a), -4 + math32.Cos(a)}
}

func pillarModel(i int) mgl32.Mat4 {
	a := 2 * math32.Pi * float32(i) / pillarCount
	x, z := ringRadius*math32.Cos(a), ringRadius*math32.Sin(a)
	return mgl32.Translate3D(x, 1, z).Mul4(mgl32.Scale3D(0.6, 2, 0.6))
}

// frame builds the pipeline input for animation time t.
func (s *demoScene) frame(t float32, width, height int) postfx.Scene {
	light := lightPosition(t)
	view := mgl32.LookAtV(mgl32.Vec3{0, 2.5, 8}, mgl32.Vec3{0, 1.5, 0}, mgl32.Vec3{0, 1, 0})
	aspect := float32(width) / float32(max(height, 1))
	projection := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100)
	orbModel := mgl32.Translate3D(light.X(), light.Y(), light.Z())

	s.objects = s.objects[:0]
	for i := 0; i < pillarCount; i++ {
		s.objects = append(s.objects, godray.Object{Model: pillarModel(i), Mesh: s.pillar})
	}
	s.objects = append(s.objects, godray.Object{Model: orbModel, Mesh: s.orb})

	return postfx.Scene{
		Draw: func() {
			s.draw(view, projection, orbModel)
		},
		Objects:    s.objects,
		LightIndex: pillarCount,
		Light:      light,
		View:       view,
		Projection: projection,
	}
}

func (s *demoScene) draw(view, projection, orbModel mgl32.Mat4) {
	dev := s.dev
	dev.Clear(render.Black, render.ClearColor|render.ClearDepth)
	dev.SetDepthTest(true)
	defer dev.SetDepthTest(false)

	p := s.program
	p.Use()
	p.SetMat4("view", view)
	p.SetMat4("projection", projection)

	p.SetMat4("model", mgl32.Ident4())
	p.SetVec3("color", floorColor)
	dev.DrawMesh(s.floor)

	p.SetVec3("color", pillarColor)
	for i := 0; i < pillarCount; i++ {
		p.SetMat4("model", pillarModel(i))
		dev.DrawMesh(s.pillar)
	}

	p.SetMat4("model", orbModel)
	p.SetVec3("color", orbColor)
	dev.DrawMesh(s.orb)
}
