// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/postfx/render"
)

// createNoopDevice opens the noop HAL adapter.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestDevice(t *testing.T, w, h int) *Device {
	t.Helper()
	d, err := New(w, h, WithHAL(noop.API{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestNewOnNoop(t *testing.T) {
	d := newTestDevice(t, 64, 32)

	if d.Name() != "wgpu" {
		t.Errorf("Name() = %q", d.Name())
	}
	if w, h := d.Screen().Size(); w != 64 || h != 32 {
		t.Errorf("Screen().Size() = %dx%d, want 64x32", w, h)
	}
	if err := d.Screen().Complete(); err != nil {
		t.Errorf("Screen().Complete() = %v", err)
	}
	if d.LiveHandles() != 2 {
		t.Errorf("LiveHandles() = %d, want 2", d.LiveHandles())
	}
	if d.Timestamps() {
		t.Error("noop reported timestamp support")
	}
	if dev, queue := d.HAL(); dev == nil || queue == nil {
		t.Error("HAL() returned nil")
	}
}

func TestNewZeroSizeClamps(t *testing.T) {
	d := newTestDevice(t, 0, -3)
	if w, h := d.Screen().Size(); w != 1 || h != 1 {
		t.Errorf("Screen().Size() = %dx%d, want 1x1", w, h)
	}
}

func TestNewWithoutBackends(t *testing.T) {
	_, err := New(8, 8, WithBackends())
	if !errors.Is(err, ErrNoAdapter) {
		t.Errorf("New() error = %v, want ErrNoAdapter", err)
	}
}

func TestFramebufferResizeKeepsIdentity(t *testing.T) {
	d := newTestDevice(t, 16, 16)

	fb, err := d.NewFramebuffer(20, 10)
	if err != nil {
		t.Fatalf("NewFramebuffer() error = %v", err)
	}
	if d.LiveHandles() != 4 {
		t.Fatalf("LiveHandles() = %d, want 4", d.LiveHandles())
	}
	tex := fb.ColorTexture()

	if err := fb.Resize(40, 30); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if fb.ColorTexture() != tex {
		t.Error("ColorTexture changed identity on resize")
	}
	if w, h := tex.Size(); w != 40 || h != 30 {
		t.Errorf("texture size = %dx%d, want 40x30", w, h)
	}
	if d.LiveHandles() != 4 {
		t.Errorf("LiveHandles() after resize = %d, want 4", d.LiveHandles())
	}

	fb.Release()
	fb.Release()
	if d.LiveHandles() != 2 {
		t.Errorf("LiveHandles() after release = %d, want 2", d.LiveHandles())
	}
	if !errors.Is(fb.Complete(), render.ErrIncompleteFramebuffer) {
		t.Error("released framebuffer reports complete")
	}
	if !errors.Is(fb.Resize(4, 4), render.ErrClosed) {
		t.Error("Resize after Release did not return ErrClosed")
	}
}

func TestNewFramebufferInvalidSize(t *testing.T) {
	d := newTestDevice(t, 4, 4)
	fb, err := d.NewFramebuffer(0, 10)
	if err == nil {
		t.Fatal("NewFramebuffer(0, 10) succeeded")
	}
	if fb != nil {
		t.Errorf("NewFramebuffer returned %v with error", fb)
	}
}

// depthlessDevice fails every depth/stencil texture.
type depthlessDevice struct {
	hal.Device
}

func (d depthlessDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if desc.Format == gputypes.TextureFormatDepth24PlusStencil8 {
		return nil, errors.New("format unsupported")
	}
	return d.Device.CreateTexture(desc)
}

func TestIncompleteFramebuffer(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	_, err := newDevice(depthlessDevice{device}, queue, 8, 8, &options{})
	if !errors.Is(err, render.ErrIncompleteFramebuffer) {
		t.Errorf("newDevice() error = %v, want ErrIncompleteFramebuffer", err)
	}
}

func TestEveryProgramDraws(t *testing.T) {
	d := newTestDevice(t, 32, 32)
	fb, err := d.NewFramebuffer(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Release()
	cube := render.NewCube(1)

	for _, kind := range render.ShaderKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			p, err := d.NewProgram(kind)
			if err != nil {
				t.Fatalf("NewProgram() error = %v", err)
			}
			p.Use()
			d.BindFramebuffer(nil)
			d.BindTexture(0, fb.ColorTexture())
			d.Clear(render.Black, render.ClearColor|render.ClearDepth)
			if isMesh(kind) {
				p.SetMat4("projection", mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100))
				d.DrawMesh(cube)
			} else {
				d.DrawFullscreen()
			}
			if err := d.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}
		})
	}
	if len(d.shaders) != len(render.ShaderKinds()) {
		t.Errorf("compiled %d shaders, want %d", len(d.shaders), len(render.ShaderKinds()))
	}
	if len(d.meshes) != 1 {
		t.Errorf("uploaded %d meshes, want 1", len(d.meshes))
	}
}

func TestPipelineCacheKeyedByDepth(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	p, err := d.NewProgram(render.ShaderUnlit)
	if err != nil {
		t.Fatal(err)
	}
	p.Use()
	cube := render.NewCube(1)

	for range 3 {
		d.SetDepthTest(true)
		d.DrawMesh(cube)
		d.SetDepthTest(false)
		d.DrawMesh(cube)
	}
	if len(d.pipelines) != 2 {
		t.Errorf("cached %d pipelines, want 2", len(d.pipelines))
	}

	// Fullscreen programs never depth test.
	s, _ := d.NewProgram(render.ShaderScreen)
	s.Use()
	d.SetDepthTest(true)
	d.DrawFullscreen()
	if _, ok := d.pipelines[pipelineKey{kind: render.ShaderScreen}]; !ok {
		t.Error("screen pipeline not cached without depth")
	}
}

func TestDrawRejectsWrongProgram(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	mesh, _ := d.NewProgram(render.ShaderOcclusion)
	mesh.Use()
	d.DrawFullscreen()

	quad, _ := d.NewProgram(render.ShaderBlur)
	quad.Use()
	d.DrawMesh(render.NewCube(1))

	if len(d.pipelines) != 0 {
		t.Errorf("mismatched draws built %d pipelines", len(d.pipelines))
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v", d.Err())
	}
}

func TestTransientResourcesReclaimed(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	p, _ := d.NewProgram(render.ShaderScreen)
	p.Use()

	for range 10 {
		d.DrawFullscreen()
	}
	// noop completes every submission immediately, so only the last
	// draw's uniform buffer and bind group are still waiting.
	if d.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", d.Pending())
	}
}

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func i32At(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off:])) //nolint:gosec // test decode
}

func TestUniformPacking(t *testing.T) {
	d := newTestDevice(t, 8, 8)

	t.Run("radial blur", func(t *testing.T) {
		p := &program{dev: d, kind: render.ShaderRadialBlur}
		p.SetVec2("lightScreenPos", mgl32.Vec2{0.25, 0.75})
		p.SetFloat("exposure", 0.5)
		p.SetFloat("decay", 0.97)
		p.SetFloat("density", 0.8)
		p.SetFloat("weight", 0.3)
		p.SetInt("numSamples", 100)
		buf := p.pack()
		want := map[int]float32{0: 0.25, 4: 0.75, 8: 0.5, 12: 0.97, 16: 0.8, 20: 0.3}
		for off, v := range want {
			if got := f32At(buf, off); got != v {
				t.Errorf("offset %d = %v, want %v", off, got, v)
			}
		}
		if got := i32At(buf, 24); got != 100 {
			t.Errorf("numSamples = %d, want 100", got)
		}
	})

	t.Run("blur bool", func(t *testing.T) {
		p := &program{dev: d, kind: render.ShaderBlur}
		p.SetBool("horizontal", true)
		if got := i32At(p.pack(), 0); got != 1 {
			t.Errorf("horizontal = %d, want 1", got)
		}
	})

	t.Run("occlusion matrices", func(t *testing.T) {
		p := &program{dev: d, kind: render.ShaderOcclusion}
		model := mgl32.Translate3D(1, 2, 3)
		p.SetMat4("model", model)
		p.SetBool("isOrb", true)
		buf := p.pack()
		// Unset view reads identity; translation sits in column 3.
		if f32At(buf, 0) != 1 || f32At(buf, 4) != 0 {
			t.Error("view is not identity")
		}
		if got := f32At(buf, 128+12*4); got != 1 {
			t.Errorf("model[12] = %v, want 1", got)
		}
		if got := i32At(buf, 192); got != 1 {
			t.Errorf("isOrb = %d, want 1", got)
		}
	})

	t.Run("unlit default color", func(t *testing.T) {
		p := &program{dev: d, kind: render.ShaderUnlit}
		buf := p.pack()
		for i := 0; i < 3; i++ {
			if got := f32At(buf, 192+4*i); got != 1 {
				t.Errorf("color[%d] = %v, want 1", i, got)
			}
		}
	})
}

func TestTextureUnits(t *testing.T) {
	tests := []struct {
		kind     render.ShaderKind
		uniforms map[string]int32
		a, b     int
	}{
		{render.ShaderScreen, nil, 0, -1},
		{render.ShaderBlur, map[string]int32{"image": 2}, 2, -1},
		{render.ShaderBloomComposite, map[string]int32{"scene": 0, "bloomBlur": 1}, 0, 1},
		{render.ShaderGodRayComposite, map[string]int32{"scene": 1, "godRays": 0}, 1, 0},
		{render.ShaderRadialBlur, map[string]int32{"occlusionTexture": 3}, 3, -1},
		{render.ShaderUnlit, nil, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := &program{kind: tt.kind}
			for name, v := range tt.uniforms {
				p.SetInt(name, v)
			}
			a, b := p.textureUnits()
			if a != tt.a || b != tt.b {
				t.Errorf("textureUnits() = %d, %d, want %d, %d", a, b, tt.a, tt.b)
			}
		})
	}
}

func TestUnboundUnitsReadDummy(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if d.unit(-1) != d.dummy || d.unit(2) != d.dummy {
		t.Error("unbound unit does not fall back to the black texture")
	}
	fb, _ := d.NewFramebuffer(4, 4)
	d.BindTexture(2, fb.ColorTexture())
	if d.unit(2) == d.dummy {
		t.Error("bound unit reads the black texture")
	}
	fb.Release()
	if d.unit(2) != d.dummy {
		t.Error("released texture still sampled")
	}
}

func TestTimerQuerySubmissionFallback(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	q, err := d.NewTimerQuery()
	if err != nil {
		t.Fatalf("NewTimerQuery() error = %v", err)
	}
	defer q.Release()

	if _, ok := q.Result(); ok {
		t.Error("idle query reported a result")
	}
	q.Begin()
	d.Clear(render.Black, render.ClearColor)
	q.End()

	got, ok := q.Result()
	if !ok {
		t.Fatal("Result() not ready after noop completed the submission")
	}
	if got < 0 {
		t.Errorf("Result() = %v, want >= 0", got)
	}
	if again, ok := q.Result(); !ok || again != got {
		t.Errorf("second Result() = %v, %v", again, ok)
	}
}

func TestReadTexture(t *testing.T) {
	d := newTestDevice(t, 70, 3)
	img, err := d.ReadTexture(d.Screen().ColorTexture())
	if err != nil {
		t.Fatalf("ReadTexture() error = %v", err)
	}
	if img.Width != 70 || img.Height != 3 {
		t.Errorf("image = %dx%d, want 70x3", img.Width, img.Height)
	}
	// noop textures have no storage; the staging buffer reads back zeros.
	if img.Sum() != 0 {
		t.Errorf("Sum() = %v, want 0", img.Sum())
	}

	if _, err := d.ReadTexture(nil); err == nil {
		t.Error("ReadTexture(nil) succeeded")
	}
}

// encoderlessDevice cannot create command encoders.
type encoderlessDevice struct {
	hal.Device
	err error
}

func (d encoderlessDevice) CreateCommandEncoder(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return nil, d.err
}

func TestErrIsSticky(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	errBoom := errors.New("boom")
	d, err := newDevice(encoderlessDevice{Device: device, err: errBoom}, queue, 8, 8, &options{})
	if err != nil {
		t.Fatalf("newDevice() error = %v", err)
	}
	defer d.Close()

	if d.Err() != nil {
		t.Fatalf("fresh device Err() = %v", d.Err())
	}
	d.Clear(render.Black, render.ClearColor)
	if !errors.Is(d.Err(), errBoom) {
		t.Fatalf("Err() = %v, want wrapped boom", d.Err())
	}
	first := d.Err()

	p, _ := d.NewProgram(render.ShaderScreen)
	p.Use()
	d.DrawFullscreen()
	if d.Err() != first {
		t.Errorf("Err() changed to %v", d.Err())
	}
	// The failed draw released its transient objects immediately.
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

type testProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *testProvider) Device() gpucontext.Device { return p.device }
func (p *testProvider) Queue() gpucontext.Queue   { return p.queue }
func (p *testProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (p *testProvider) Adapter() gpucontext.Adapter { return nil }
func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop"}
}
func (p *testProvider) HalDevice() any { return p.device }
func (p *testProvider) HalQueue() any  { return p.queue }

// countingDevice counts Destroy calls.
type countingDevice struct {
	hal.Device
	destroyed *int
}

func (d countingDevice) Destroy() { *d.destroyed++ }

func TestNewFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	var destroyed int
	provider := &testProvider{device: countingDevice{Device: device, destroyed: &destroyed}, queue: queue}
	d, err := NewFromProvider(provider, 12, 6)
	if err != nil {
		t.Fatalf("NewFromProvider() error = %v", err)
	}
	if w, h := d.Screen().Size(); w != 12 || h != 6 {
		t.Errorf("Screen().Size() = %dx%d", w, h)
	}
	p, _ := d.NewProgram(render.ShaderScreen)
	p.Use()
	d.DrawFullscreen()
	d.Close()
	if destroyed != 0 {
		t.Errorf("Close destroyed the shared device %d times", destroyed)
	}
}

type bareProvider struct{ testProvider }

func (bareProvider) HalDevice() any { return "not a device" }

func TestNewFromProviderWithoutHAL(t *testing.T) {
	_, err := NewFromProvider(&bareProvider{}, 4, 4)
	if !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider() error = %v, want ErrNoHAL", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	d, err := New(4, 4, WithHAL(noop.API{}))
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close()
	if _, err := d.NewFramebuffer(2, 2); !errors.Is(err, render.ErrClosed) {
		t.Errorf("NewFramebuffer after Close = %v, want ErrClosed", err)
	}
	if _, err := d.NewProgram(render.ShaderScreen); !errors.Is(err, render.ErrClosed) {
		t.Errorf("NewProgram after Close = %v, want ErrClosed", err)
	}
}
