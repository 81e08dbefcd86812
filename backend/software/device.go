// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"runtime"

	"github.com/gogpu/postfx/render"
)

// maxUnits is the number of sampler units.
const maxUnits = 4

// Option configures a Device.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers sets how many goroutines share a draw. Zero or negative uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Device is a CPU implementation of render.Device.
//
// Textures hold float RGBA with rows stored bottom-up, the OpenGL
// convention, so texture coordinate (0,0) is the bottom-left texel. Color
// writes are clamped to [0,1] like an 8-bit UNORM attachment.
type Device struct {
	workers int

	screen    *framebuffer
	bound     *framebuffer
	viewport  [4]int
	depthTest bool
	units     [maxUnits]*texture
	current   *program

	nextID uint64
	live   int
	err    error
	closed bool
}

// New creates a device whose default framebuffer is width x height.
func New(width, height int, opts ...Option) *Device {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	d := &Device{workers: o.workers}
	d.screen = d.newFramebuffer(max(width, 1), max(height, 1))
	d.viewport = [4]int{0, 0, d.screen.color.w, d.screen.color.h}
	return d
}

// Name returns "software".
func (d *Device) Name() string { return Name }

// LiveHandles returns the number of allocated attachments, counting the
// default framebuffer. Resizing never changes it.
func (d *Device) LiveHandles() int { return d.live }

// NewFramebuffer allocates a color texture and a depth buffer.
func (d *Device) NewFramebuffer(width, height int) (render.Framebuffer, error) {
	if d.closed {
		return nil, render.ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("software: invalid framebuffer size %dx%d", width, height)
	}
	return d.newFramebuffer(width, height), nil
}

func (d *Device) newFramebuffer(w, h int) *framebuffer {
	fb := &framebuffer{dev: d, color: d.newTexture(w, h)}
	fb.depth = make([]float32, w*h)
	d.live++ // depth/stencil attachment
	fb.clearDepth()
	return fb
}

func (d *Device) newTexture(w, h int) *texture {
	d.nextID++
	d.live++
	return &texture{id: d.nextID, w: w, h: h, pix: make([]float32, w*h*4)}
}

// Screen returns the default framebuffer.
func (d *Device) Screen() render.Framebuffer { return d.screen }

// BindFramebuffer selects the draw destination. Nil selects the screen.
func (d *Device) BindFramebuffer(fb render.Framebuffer) {
	if fb == nil {
		d.bound = nil
		return
	}
	d.bound = fb.(*framebuffer)
}

func (d *Device) target() *framebuffer {
	if d.bound == nil || d.bound.released {
		return d.screen
	}
	return d.bound
}

// SetViewport sets the draw rectangle in pixels, origin bottom-left.
func (d *Device) SetViewport(x, y, width, height int) {
	d.viewport = [4]int{x, y, width, height}
}

// SetDepthTest toggles the LESS depth test and depth writes.
func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }

// Clear fills the bound framebuffer. Like glClear it ignores the viewport.
func (d *Device) Clear(c render.Color, mask render.ClearMask) {
	fb := d.target()
	if mask&render.ClearColor != 0 {
		px := [4]float32{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
		pix := fb.color.pix
		for i := 0; i < len(pix); i += 4 {
			copy(pix[i:i+4], px[:])
		}
	}
	if mask&render.ClearDepth != 0 {
		fb.clearDepth()
	}
}

// BindTexture binds a texture to a sampler unit.
func (d *Device) BindTexture(unit int, tex render.Texture) {
	if unit < 0 || unit >= maxUnits {
		render.Logger().Warn("software: texture unit out of range", "unit", unit)
		return
	}
	if tex == nil {
		d.units[unit] = nil
		return
	}
	d.units[unit] = tex.(*texture)
}

// NewProgram returns the CPU kernel for kind.
func (d *Device) NewProgram(kind render.ShaderKind) (render.Program, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("software: %w: %v", render.ErrUnknownShader, kind)
	}
	return &program{dev: d, kind: kind}, nil
}

// NewTimerQuery returns a wall-clock query whose result becomes visible
// one poll after End, mimicking GPU readback latency.
func (d *Device) NewTimerQuery() (render.TimerQuery, error) {
	return &timerQuery{}, nil
}

// ReadTexture copies a texture into a top-down FloatImage.
func (d *Device) ReadTexture(tex render.Texture) (*render.FloatImage, error) {
	t, ok := tex.(*texture)
	if !ok || t == nil {
		return nil, fmt.Errorf("software: read texture: not a software texture")
	}
	if t.pix == nil {
		return nil, fmt.Errorf("software: read texture: %w", render.ErrClosed)
	}
	img := render.NewFloatImage(t.w, t.h)
	row := t.w * 4
	for y := 0; y < t.h; y++ {
		src := t.pix[(t.h-1-y)*row : (t.h-y)*row]
		copy(img.Pix[y*row:(y+1)*row], src)
	}
	return img, nil
}

// Err returns the first error recorded by a draw, such as a worker that
// panicked while shading its rows.
func (d *Device) Err() error { return d.err }

// fail records err as the device error unless one is already set.
func (d *Device) fail(err error) {
	if err == nil {
		return
	}
	render.Logger().Error("software: draw failed", "err", err)
	if d.err == nil {
		d.err = err
	}
}

// Close releases the default framebuffer.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.screen.Release()
	d.closed = true
}

// texture is a float RGBA image, rows bottom-up.
type texture struct {
	id  uint64
	w   int
	h   int
	pix []float32
}

func (t *texture) Size() (int, int) { return t.w, t.h }

// ID returns a stable identifier, unchanged by resizes.
func (t *texture) ID() uint64 { return t.id }

type framebuffer struct {
	dev      *Device
	color    *texture
	depth    []float32
	released bool
}

func (f *framebuffer) Size() (int, int) { return f.color.w, f.color.h }

func (f *framebuffer) ColorTexture() render.Texture { return f.color }

func (f *framebuffer) Complete() error {
	if f.released || f.color == nil || len(f.depth) != f.color.w*f.color.h {
		return render.ErrIncompleteFramebuffer
	}
	return nil
}

// Resize reallocates storage; the framebuffer and texture values keep
// their identity.
func (f *framebuffer) Resize(width, height int) error {
	if f.released {
		return render.ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("software: invalid framebuffer size %dx%d", width, height)
	}
	f.color.w, f.color.h = width, height
	f.color.pix = make([]float32, width*height*4)
	f.depth = make([]float32, width*height)
	f.clearDepth()
	return nil
}

func (f *framebuffer) Release() {
	if f.released {
		return
	}
	f.released = true
	f.color.pix = nil
	f.depth = nil
	f.dev.live -= 2
}

func (f *framebuffer) clearDepth() {
	for i := range f.depth {
		f.depth[i] = 1
	}
}

// program holds uniforms for one kernel.
type program struct {
	render.Uniforms
	dev  *Device
	kind render.ShaderKind
}

func (p *program) Kind() render.ShaderKind { return p.kind }
func (p *program) Use()                    { p.dev.current = p }
func (p *program) Release()                {}
