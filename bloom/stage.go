// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bloom

import (
	"errors"
	"fmt"

	"github.com/gogpu/postfx/render"
)

// Profiler labels of the bloom passes.
const (
	LabelScene       = "1. Scene"
	LabelBrightPass  = "2. Bloom Bright Pass"
	LabelBlur        = "3. Bloom Blur"
	LabelComposite   = "4. Bloom Composite"
	LabelPassthrough = "4. Bloom Passthrough"
)

// Stage renders a scene with bloom. It owns its targets and programs and
// must be closed.
type Stage struct {
	dev  render.Device
	prof render.Profiler

	scene  *render.RenderTarget
	bright *render.RenderTarget
	blurA  *render.RenderTarget
	blurB  *render.RenderTarget
	output *render.RenderTarget // nil unless WithOffscreenComposite

	screen     render.Program
	brightPass render.Program
	blur       render.Program
	composite  render.Program

	closed bool
}

// New creates a stage with targets of width x height.
func New(dev render.Device, width, height int, opts ...Option) (*Stage, error) {
	o := options{profiler: render.NopProfiler{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stage{dev: dev, prof: o.profiler}
	targets := []**render.RenderTarget{&s.scene, &s.bright, &s.blurA, &s.blurB}
	if o.offscreen {
		targets = append(targets, &s.output)
	}
	for _, t := range targets {
		rt, err := render.NewRenderTarget(dev, width, height)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("bloom: %w", err)
		}
		*t = rt
	}

	programs := []struct {
		dst  *render.Program
		kind render.ShaderKind
	}{
		{&s.screen, render.ShaderScreen},
		{&s.brightPass, render.ShaderBrightPass},
		{&s.blur, render.ShaderBlur},
		{&s.composite, render.ShaderBloomComposite},
	}
	for _, p := range programs {
		prog, err := dev.NewProgram(p.kind)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("bloom: %w", err)
		}
		*p.dst = prog
	}

	render.Logger().Debug("bloom stage created",
		"width", width, "height", height, "offscreen", o.offscreen)
	return s, nil
}

// Render runs one frame. drawScene is called exactly once with the scene
// target bound; it is expected to clear and draw. The result goes to the
// default target with a windowW x windowH viewport, or to the output
// target when the stage composites offscreen.
func (s *Stage) Render(drawScene func(), p Params, windowW, windowH int) {
	s.prof.Begin(LabelScene)
	s.scene.Bind()
	drawScene()
	s.prof.End(LabelScene)

	if !p.Enabled {
		s.prof.Begin(LabelPassthrough)
		s.bindOutput(windowW, windowH)
		s.screen.Use()
		s.dev.BindTexture(0, s.scene.ColorTexture())
		s.screen.SetInt("screenTexture", 0)
		s.dev.DrawFullscreen()
		s.prof.End(LabelPassthrough)
		return
	}

	s.prof.Begin(LabelBrightPass)
	s.bright.Bind()
	s.dev.SetDepthTest(false)
	s.dev.Clear(render.Black, render.ClearColor)
	s.brightPass.Use()
	s.dev.BindTexture(0, s.scene.ColorTexture())
	s.brightPass.SetInt("screenTexture", 0)
	s.brightPass.SetFloat("threshold", p.Threshold)
	s.dev.DrawFullscreen()
	s.prof.End(LabelBrightPass)

	n := max(p.BlurIterations, 0)
	s.prof.Begin(LabelBlur)
	s.blur.Use()
	s.blur.SetInt("image", 0)
	for _, pass := range BlurSchedule(n) {
		s.target(pass.Dest).Bind()
		s.dev.Clear(render.Black, render.ClearColor)
		s.dev.BindTexture(0, s.target(pass.Source).ColorTexture())
		s.blur.SetBool("horizontal", pass.Horizontal)
		s.dev.DrawFullscreen()
	}
	s.prof.End(LabelBlur)

	s.prof.Begin(LabelComposite)
	s.bindOutput(windowW, windowH)
	s.composite.Use()
	s.dev.BindTexture(0, s.scene.ColorTexture())
	s.composite.SetInt("scene", 0)
	s.dev.BindTexture(1, s.target(Final(n)).ColorTexture())
	s.composite.SetInt("bloomBlur", 1)
	s.composite.SetFloat("bloomStrength", p.Strength)
	s.dev.DrawFullscreen()
	s.prof.End(LabelComposite)
}

// bindOutput binds the composite destination, depth test off, cleared.
func (s *Stage) bindOutput(windowW, windowH int) {
	if s.output != nil {
		s.output.Bind()
	} else {
		render.Unbind(s.dev)
		s.dev.SetViewport(0, 0, windowW, windowH)
	}
	s.dev.SetDepthTest(false)
	s.dev.Clear(render.Black, render.ClearColor)
}

func (s *Stage) target(p Ping) *render.RenderTarget {
	switch p {
	case PingA:
		return s.blurA
	case PingB:
		return s.blurB
	}
	return s.bright
}

// SceneTexture returns the scene as drawn, before bloom.
func (s *Stage) SceneTexture() render.Texture { return s.scene.ColorTexture() }

// OutputTexture returns the composited frame when the stage was created
// WithOffscreenComposite, and nil otherwise.
func (s *Stage) OutputTexture() render.Texture {
	if s.output == nil {
		return nil
	}
	return s.output.ColorTexture()
}

// BlurTexture returns the texture the composite reads for n iterations.
func (s *Stage) BlurTexture(n int) render.Texture {
	return s.target(Final(n)).ColorTexture()
}

// Resize resizes every target to width x height. A closed stage returns
// render.ErrClosed.
func (s *Stage) Resize(width, height int) error {
	if s.closed {
		return render.ErrClosed
	}
	var errs []error
	for _, rt := range s.targets() {
		if err := rt.Resize(width, height); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("bloom: %w", err)
	}
	render.Logger().Debug("bloom stage resized", "width", width, "height", height)
	return nil
}

// Size returns the size of the stage's targets.
func (s *Stage) Size() (width, height int) { return s.scene.Size() }

func (s *Stage) targets() []*render.RenderTarget {
	out := make([]*render.RenderTarget, 0, 5)
	for _, rt := range []*render.RenderTarget{s.scene, s.bright, s.blurA, s.blurB, s.output} {
		if rt != nil {
			out = append(out, rt)
		}
	}
	return out
}

// Close releases all targets and programs. It is safe to call more than
// once.
func (s *Stage) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, rt := range s.targets() {
		rt.Close()
	}
	for _, p := range []render.Program{s.screen, s.brightPass, s.blur, s.composite} {
		if p != nil {
			p.Release()
		}
	}
}
