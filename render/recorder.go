// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"maps"

	"github.com/go-gl/mathgl/mgl32"
)

// Op is a recorded device operation.
type Op uint8

// Recorded operations.
const (
	OpBind Op = iota
	OpViewport
	OpDepthTest
	OpClear
	OpBindTexture
	OpUse
	OpDrawFullscreen
	OpDrawMesh
)

func (o Op) String() string {
	switch o {
	case OpBind:
		return "bind"
	case OpViewport:
		return "viewport"
	case OpDepthTest:
		return "depth-test"
	case OpClear:
		return "clear"
	case OpBindTexture:
		return "bind-texture"
	case OpUse:
		return "use"
	case OpDrawFullscreen:
		return "draw-fullscreen"
	case OpDrawMesh:
		return "draw-mesh"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Event is one recorded operation together with the state it ran under.
type Event struct {
	Op Op

	// Target is the framebuffer bound when the event ran. Nil means the
	// default target.
	Target Framebuffer

	// Shader is the current program kind for OpUse and draws.
	Shader ShaderKind

	// Textures holds the textures bound to units 0 and 1 at draw time.
	Textures [2]Texture

	Unit     int
	Texture  Texture
	Viewport [4]int
	Enabled  bool
	Mask     ClearMask
	Mesh     *Mesh

	// Uniforms is a snapshot of the current program's uniforms at draw
	// time.
	Uniforms *Uniforms
}

// Recorder wraps a Device and records every state change and draw.
// Stages draw through it unchanged; tests and debug tooling read back the
// pass sequence with Events.
type Recorder struct {
	Device

	events   []Event
	bound    Framebuffer
	current  *recordedProgram
	textures [2]Texture
}

// NewRecorder wraps dev.
func NewRecorder(dev Device) *Recorder {
	return &Recorder{Device: dev}
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event { return r.events }

// Draws returns only the draw events.
func (r *Recorder) Draws() []Event {
	var out []Event
	for _, e := range r.events {
		if e.Op == OpDrawFullscreen || e.Op == OpDrawMesh {
			out = append(out, e)
		}
	}
	return out
}

// DrawsTo returns the draw events that wrote into fb (nil for the default
// target).
func (r *Recorder) DrawsTo(fb Framebuffer) []Event {
	var out []Event
	for _, e := range r.Draws() {
		if e.Target == fb {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops the recorded events but keeps the tracked state.
func (r *Recorder) Reset() { r.events = r.events[:0] }

func (r *Recorder) record(e Event) {
	e.Target = r.bound
	r.events = append(r.events, e)
}

func (r *Recorder) BindFramebuffer(fb Framebuffer) {
	r.Device.BindFramebuffer(fb)
	r.bound = fb
	r.record(Event{Op: OpBind})
}

func (r *Recorder) SetViewport(x, y, w, h int) {
	r.Device.SetViewport(x, y, w, h)
	r.record(Event{Op: OpViewport, Viewport: [4]int{x, y, w, h}})
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.Device.SetDepthTest(enabled)
	r.record(Event{Op: OpDepthTest, Enabled: enabled})
}

func (r *Recorder) Clear(c Color, mask ClearMask) {
	r.Device.Clear(c, mask)
	r.record(Event{Op: OpClear, Mask: mask})
}

func (r *Recorder) BindTexture(unit int, tex Texture) {
	r.Device.BindTexture(unit, tex)
	if unit >= 0 && unit < len(r.textures) {
		r.textures[unit] = tex
	}
	r.record(Event{Op: OpBindTexture, Unit: unit, Texture: tex})
}

func (r *Recorder) NewProgram(kind ShaderKind) (Program, error) {
	p, err := r.Device.NewProgram(kind)
	if err != nil {
		return nil, err
	}
	return &recordedProgram{Program: p, rec: r}, nil
}

func (r *Recorder) DrawFullscreen() {
	r.Device.DrawFullscreen()
	r.record(r.drawEvent(OpDrawFullscreen, nil))
}

func (r *Recorder) DrawMesh(m *Mesh) {
	r.Device.DrawMesh(m)
	r.record(r.drawEvent(OpDrawMesh, m))
}

func (r *Recorder) drawEvent(op Op, m *Mesh) Event {
	e := Event{Op: op, Textures: r.textures, Mesh: m}
	if r.current != nil {
		e.Shader = r.current.Kind()
		e.Uniforms = &Uniforms{values: maps.Clone(r.current.mirror.values)}
	}
	return e
}

// recordedProgram mirrors uniform writes so draws can be snapshotted.
type recordedProgram struct {
	Program
	rec    *Recorder
	mirror Uniforms
}

func (p *recordedProgram) Use() {
	p.Program.Use()
	p.rec.current = p
	p.rec.record(Event{Op: OpUse, Shader: p.Kind()})
}

func (p *recordedProgram) SetInt(name string, v int32) {
	p.Program.SetInt(name, v)
	p.mirror.SetInt(name, v)
}

func (p *recordedProgram) SetFloat(name string, v float32) {
	p.Program.SetFloat(name, v)
	p.mirror.SetFloat(name, v)
}

func (p *recordedProgram) SetBool(name string, v bool) {
	p.Program.SetBool(name, v)
	p.mirror.SetBool(name, v)
}

func (p *recordedProgram) SetVec2(name string, v mgl32.Vec2) {
	p.Program.SetVec2(name, v)
	p.mirror.SetVec2(name, v)
}

func (p *recordedProgram) SetVec3(name string, v mgl32.Vec3) {
	p.Program.SetVec3(name, v)
	p.mirror.SetVec3(name, v)
}

func (p *recordedProgram) SetMat4(name string, v mgl32.Mat4) {
	p.Program.SetMat4(name, v)
	p.mirror.SetMat4(name, v)
}
