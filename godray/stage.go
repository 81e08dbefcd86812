// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package godray

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/postfx/render"
)

// Profiler labels of the god ray passes.
const (
	LabelOcclusion  = "5. Godray Occlusion"
	LabelRadialBlur = "6. Godray Radial Blur"
	LabelComposite  = "7. Godray Composite"
)

// Object is one mesh drawn into the occlusion mask.
type Object struct {
	Model mgl32.Mat4
	Mesh  *render.Mesh
}

// FrameInput is everything Apply needs for one frame.
type FrameInput struct {
	// Scene is composited under the rays. A nil texture samples as black.
	Scene render.Texture

	// Objects are drawn into the mask in order. Objects[LightIndex] is the
	// light's own mesh and comes out white; a LightIndex outside the slice
	// leaves the mask black.
	Objects    []Object
	LightIndex int

	// Light is the world-space light position.
	Light      mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4

	Params Params

	WindowWidth  int
	WindowHeight int
}

// Stage renders god rays. It owns two targets and four programs and must
// be closed.
type Stage struct {
	dev   render.Device
	prof  render.Profiler
	scale float32

	occlusion *render.RenderTarget
	radial    *render.RenderTarget

	occlusionProg render.Program
	radialProg    render.Program
	compositeProg render.Program
	screenProg    render.Program

	closed bool
}

// New creates a stage for a width x height window.
func New(dev render.Device, width, height int, opts ...Option) (*Stage, error) {
	o := options{scale: MaxResolutionScale, profiler: render.NopProfiler{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stage{
		dev:   dev,
		prof:  o.profiler,
		scale: mgl32.Clamp(o.scale, MinResolutionScale, MaxResolutionScale),
	}
	sw, sh := s.scaled(width, height)
	for _, t := range []**render.RenderTarget{&s.occlusion, &s.radial} {
		rt, err := render.NewRenderTarget(dev, sw, sh)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("godray: %w", err)
		}
		*t = rt
	}

	programs := []struct {
		dst  *render.Program
		kind render.ShaderKind
	}{
		{&s.occlusionProg, render.ShaderOcclusion},
		{&s.radialProg, render.ShaderRadialBlur},
		{&s.compositeProg, render.ShaderGodRayComposite},
		{&s.screenProg, render.ShaderScreen},
	}
	for _, p := range programs {
		prog, err := dev.NewProgram(p.kind)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("godray: %w", err)
		}
		*p.dst = prog
	}

	render.Logger().Debug("godray stage created",
		"width", sw, "height", sh, "scale", s.scale)
	return s, nil
}

// scaled returns the target size for a window, at least 1x1.
func (s *Stage) scaled(width, height int) (int, int) {
	w := int(math32.Floor(float32(width) * s.scale))
	h := int(math32.Floor(float32(height) * s.scale))
	return max(w, 1), max(h, 1)
}

// ResolutionScale returns the clamped scale the stage was built with.
func (s *Stage) ResolutionScale() float32 { return s.scale }

// Apply renders one frame and reports which passes ran.
func (s *Stage) Apply(in FrameInput) Outcome {
	lp := ProjectLight(in.Light, in.View, in.Projection)
	out := Plan(in.Params.Debug, lp)

	s.occlusionPass(in)

	if out.Kind == DebugOcclusion {
		s.present(s.occlusion.ColorTexture(), in.WindowWidth, in.WindowHeight)
		return out
	}

	if out.RunRadialBlur {
		s.radialPass(lp.Screen, in.Params)
	} else {
		s.radial.Bind()
		s.dev.Clear(render.Black, render.ClearColor)
	}

	if out.Kind == DebugRadialBlur {
		s.present(s.radial.ColorTexture(), in.WindowWidth, in.WindowHeight)
		return out
	}

	s.composite(in)
	return out
}

func (s *Stage) occlusionPass(in FrameInput) {
	s.prof.Begin(LabelOcclusion)
	s.occlusion.Bind()
	s.dev.SetDepthTest(true)
	s.dev.Clear(render.Black, render.ClearColor|render.ClearDepth)

	p := s.occlusionProg
	p.Use()
	p.SetMat4("view", in.View)
	p.SetMat4("projection", in.Projection)
	for i, obj := range in.Objects {
		if obj.Mesh == nil {
			continue
		}
		p.SetMat4("model", obj.Model)
		p.SetBool("isOrb", i == in.LightIndex)
		s.dev.DrawMesh(obj.Mesh)
	}
	render.Unbind(s.dev)
	s.prof.End(LabelOcclusion)
}

func (s *Stage) radialPass(light mgl32.Vec2, params Params) {
	s.prof.Begin(LabelRadialBlur)
	s.radial.Bind()
	s.dev.SetDepthTest(false)
	s.dev.Clear(render.Black, render.ClearColor)

	p := s.radialProg
	p.Use()
	s.dev.BindTexture(0, s.occlusion.ColorTexture())
	p.SetInt("occlusionTexture", 0)
	p.SetVec2("lightScreenPos", light)
	p.SetFloat("exposure", params.Exposure)
	p.SetFloat("decay", params.Decay)
	p.SetFloat("density", params.Density)
	p.SetFloat("weight", params.Weight)
	p.SetInt("numSamples", int32(params.NumSamples))
	s.dev.DrawFullscreen()
	s.prof.End(LabelRadialBlur)
}

func (s *Stage) composite(in FrameInput) {
	s.prof.Begin(LabelComposite)
	s.bindWindow(in.WindowWidth, in.WindowHeight)

	p := s.compositeProg
	p.Use()
	s.dev.BindTexture(0, in.Scene)
	p.SetInt("scene", 0)
	s.dev.BindTexture(1, s.radial.ColorTexture())
	p.SetInt("godRays", 1)
	p.SetFloat("godRayStrength", in.Params.Strength)
	s.dev.DrawFullscreen()
	s.prof.End(LabelComposite)
}

// present copies tex to the default target.
func (s *Stage) present(tex render.Texture, windowW, windowH int) {
	s.bindWindow(windowW, windowH)
	s.screenProg.Use()
	s.dev.BindTexture(0, tex)
	s.screenProg.SetInt("screenTexture", 0)
	s.dev.DrawFullscreen()
}

func (s *Stage) bindWindow(w, h int) {
	render.Unbind(s.dev)
	s.dev.SetViewport(0, 0, w, h)
	s.dev.SetDepthTest(false)
	s.dev.Clear(render.Black, render.ClearColor)
}

// OcclusionTexture returns the mask drawn by the last frame.
func (s *Stage) OcclusionTexture() render.Texture { return s.occlusion.ColorTexture() }

// RadialTexture returns the rays drawn by the last frame.
func (s *Stage) RadialTexture() render.Texture { return s.radial.ColorTexture() }

// Size returns the size of the intermediate targets.
func (s *Stage) Size() (width, height int) { return s.occlusion.Size() }

// Resize resizes both targets for a width x height window. A closed stage
// returns render.ErrClosed.
func (s *Stage) Resize(width, height int) error {
	if s.closed {
		return render.ErrClosed
	}
	sw, sh := s.scaled(width, height)
	err := errors.Join(s.occlusion.Resize(sw, sh), s.radial.Resize(sw, sh))
	if err != nil {
		return fmt.Errorf("godray: %w", err)
	}
	render.Logger().Debug("godray stage resized", "width", sw, "height", sh)
	return nil
}

// Close releases targets and programs. It is safe to call more than once.
func (s *Stage) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.occlusion.Close()
	s.radial.Close()
	for _, p := range []render.Program{s.occlusionProg, s.radialProg, s.compositeProg, s.screenProg} {
		if p != nil {
			p.Release()
		}
	}
}
