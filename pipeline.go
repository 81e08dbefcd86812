// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/postfx/bloom"
	"github.com/gogpu/postfx/godray"
	"github.com/gogpu/postfx/profiler"
	"github.com/gogpu/postfx/render"
)

// Scene is the caller's part of a frame.
type Scene struct {
	// Draw renders the scene. It runs once per frame with the offscreen
	// scene target bound and should clear it first.
	Draw func()

	// Objects are drawn into the god ray occlusion mask; Objects[LightIndex]
	// is the light's own mesh.
	Objects    []godray.Object
	LightIndex int

	Light      mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Pipeline chains bloom and god rays on one device.
//
// Frame, Resize and Close must be called from the render goroutine.
// SetSettings may be called from any goroutine; the new settings are
// picked up at the start of the next frame.
type Pipeline struct {
	dev       render.Device
	prof      *profiler.Profiler
	bloom     *bloom.Stage
	godray    *godray.Stage
	overBloom bool

	width, height int
	settings      Settings // written by the render goroutine, under mu
	closed        bool

	mu      sync.Mutex
	pending *Settings
}

// New builds a pipeline for a width x height window.
func New(dev render.Device, width, height int, opts ...Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		dev:       dev,
		overBloom: o.overBloom,
		width:     max(width, 1),
		height:    max(height, 1),
		settings:  o.settings,
	}

	popts := []profiler.Option{profiler.WithHistorySize(o.settings.ProfilerHistory)}
	if !o.profiling {
		popts = append(popts, profiler.WithDisabled())
	}
	p.prof = profiler.New(dev, popts...)

	bopts := []bloom.Option{bloom.WithProfiler(p.prof)}
	if p.overBloom {
		bopts = append(bopts, bloom.WithOffscreenComposite())
	}
	var err error
	p.bloom, err = bloom.New(dev, p.width, p.height, bopts...)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("postfx: %w", err)
	}
	if p.godray, err = p.newGodRay(o.settings.GodRayScale); err != nil {
		p.Close()
		return nil, fmt.Errorf("postfx: %w", err)
	}

	Logger().Info("pipeline created",
		"backend", dev.Name(), "width", p.width, "height", p.height,
		"godray_scale", p.godray.ResolutionScale(), "profiling", o.profiling)
	return p, nil
}

func (p *Pipeline) newGodRay(scale float32) (*godray.Stage, error) {
	return godray.New(p.dev, p.width, p.height,
		godray.WithResolutionScale(scale),
		godray.WithProfiler(p.prof),
	)
}

// Frame renders one frame and reports what the god ray stage presented.
// The error is the device's sticky error, if a backend call failed during
// the frame.
func (p *Pipeline) Frame(sc Scene) (godray.Outcome, error) {
	if p.closed {
		return godray.Outcome{}, ErrClosed
	}
	s := p.applyPending()

	draw := sc.Draw
	if draw == nil {
		draw = func() {}
	}
	p.bloom.Render(draw, s.Bloom, p.width, p.height)

	base := p.bloom.SceneTexture()
	if p.overBloom {
		base = p.bloom.OutputTexture()
	}
	out := p.godray.Apply(godray.FrameInput{
		Scene:        base,
		Objects:      sc.Objects,
		LightIndex:   sc.LightIndex,
		Light:        sc.Light,
		View:         sc.View,
		Projection:   sc.Projection,
		Params:       s.GodRay,
		WindowWidth:  p.width,
		WindowHeight: p.height,
	})

	p.prof.Update()
	if err := p.dev.Err(); err != nil {
		return out, fmt.Errorf("postfx: frame: %w", err)
	}
	return out, nil
}

// applyPending swaps in settings queued by SetSettings and returns the
// settings for this frame. When the god ray stage cannot be rebuilt at a
// new resolution scale, the other fields still apply and the old scale is
// kept.
func (p *Pipeline) applyPending() Settings {
	p.mu.Lock()
	next := p.pending
	p.pending = nil
	p.mu.Unlock()
	if next == nil {
		return p.settings
	}

	if next.GodRayScale != p.godray.ResolutionScale() {
		g, err := p.newGodRay(next.GodRayScale)
		if err != nil {
			Logger().Warn("god ray rebuild failed, keeping resolution scale",
				"scale", p.godray.ResolutionScale(), "requested", next.GodRayScale, "err", err)
			next.GodRayScale = p.godray.ResolutionScale()
		} else {
			p.godray.Close()
			p.godray = g
			Logger().Info("god ray stage rebuilt", "scale", g.ResolutionScale())
		}
	}

	p.mu.Lock()
	p.settings = *next
	p.mu.Unlock()
	Logger().Debug("settings applied")
	return *next
}

// SetSettings queues s for the next frame. It is safe for concurrent use.
func (p *Pipeline) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.pending = &s
	p.mu.Unlock()
	return nil
}

// Settings returns the settings the last frame ran with, or the queued
// ones if SetSettings was called since.
func (p *Pipeline) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return *p.pending
	}
	return p.settings
}

// Resize resizes every owned target. Call it between frames.
func (p *Pipeline) Resize(width, height int) error {
	if p.closed {
		return ErrClosed
	}
	width, height = max(width, 1), max(height, 1)
	err := errors.Join(p.bloom.Resize(width, height), p.godray.Resize(width, height))
	if err != nil {
		return fmt.Errorf("postfx: resize: %w", err)
	}
	p.width, p.height = width, height
	Logger().Debug("pipeline resized", "width", width, "height", height)
	return nil
}

// Size returns the window size frames are rendered at.
func (p *Pipeline) Size() (width, height int) { return p.width, p.height }

// Profiler returns the pipeline's profiler.
func (p *Pipeline) Profiler() *profiler.Profiler { return p.prof }

// Bloom returns the bloom stage.
func (p *Pipeline) Bloom() *bloom.Stage { return p.bloom }

// GodRay returns the god ray stage. It changes when the resolution scale
// does.
func (p *Pipeline) GodRay() *godray.Stage { return p.godray }

// Output returns the texture holding the final frame: the device's
// default target color.
func (p *Pipeline) Output() render.Texture { return p.dev.Screen().ColorTexture() }

// Close releases the stages and the profiler. The device stays open.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.godray != nil {
		p.godray.Close()
	}
	if p.bloom != nil {
		p.bloom.Close()
	}
	p.prof.Close()
}
