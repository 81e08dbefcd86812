// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// Errors returned while opening a device.
var (
	// ErrNoAdapter is returned when none of the requested HAL backends
	// exposes an adapter.
	ErrNoAdapter = errors.New("wgpu: no usable GPU adapter")

	// ErrNoHAL is returned by NewFromProvider when the provider does not
	// expose its hal.Device and hal.Queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")
)

// maxUnits is the number of sampler units.
const maxUnits = 4

// retired is a GPU object released once the submission that last used it
// has completed.
type retired struct {
	index   uint64
	release func()
}

// Device implements render.Device on a gogpu/wgpu HAL device.
//
// Every Clear and draw call is recorded into its own render pass and
// submitted immediately, so draw order equals submission order. Transient
// objects (uniform buffers, bind groups, command buffers, replaced
// attachments) are released once Queue.PollCompleted reports their
// submission done.
//
// The default framebuffer is an offscreen target: hosts present its
// color texture themselves.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	owned    bool
	spirv    bool

	timestamps bool
	period     float32

	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	dummy      *texture
	shaders    map[render.ShaderKind]hal.ShaderModule
	pipelines  map[pipelineKey]hal.RenderPipeline
	meshes     map[*render.Mesh]*meshBuffers

	screen    *framebuffer
	bound     *framebuffer
	viewport  [4]int
	depthTest bool
	units     [maxUnits]*texture
	current   *program
	active    *timerQuery

	retired    []retired
	lastSubmit uint64

	live   int
	err    error
	closed bool
}

// New opens the first adapter of the configured HAL backends and creates
// a device whose default framebuffer is width x height.
//
// HAL backends register themselves on import; applications usually
// import github.com/gogpu/wgpu/hal/allbackends.
func New(width, height int, opts ...Option) (*Device, error) {
	o := options{variants: defaultVariants}
	for _, opt := range opts {
		opt(&o)
	}

	instance, adapter, err := openAdapter(&o)
	if err != nil {
		return nil, err
	}

	var features gputypes.Features
	if adapter.Features.Contains(gputypes.FeatureTimestampQuery) {
		features.Insert(gputypes.FeatureTimestampQuery)
	}
	open, err := adapter.Adapter.Open(features, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d, err := newDevice(open.Device, open.Queue, width, height, &o)
	if err != nil {
		open.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	render.Logger().Info("wgpu: device opened",
		"adapter", adapter.Info.Name,
		"backend", adapter.Info.Backend.String(),
		"timestamps", d.timestamps)
	return d, nil
}

// NewFromProvider creates a device on a host-owned GPU device, for example
// the one of a gogpu window. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// Close releases only the objects this package created.
func NewFromProvider(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	d, err := newDevice(device, queue, width, height, &o)
	if err != nil {
		return nil, err
	}
	info := provider.AdapterInfo()
	render.Logger().Info("wgpu: using shared device", "adapter", info.Name)
	return d, nil
}

func openAdapter(o *options) (hal.Instance, *hal.ExposedAdapter, error) {
	var apis []hal.Backend
	if o.api != nil {
		apis = append(apis, o.api)
	} else {
		for _, v := range o.variants {
			if b, ok := hal.GetBackend(v); ok {
				apis = append(apis, b)
			}
		}
	}
	if len(apis) == 0 {
		return nil, nil, fmt.Errorf("%w: no HAL backend registered", ErrNoAdapter)
	}

	var errs []error
	for _, api := range apis {
		instance, err := api.CreateInstance(&hal.InstanceDescriptor{})
		if err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", api.Variant(), err))
			continue
		}
		adapters := instance.EnumerateAdapters(nil)
		if len(adapters) == 0 {
			instance.Destroy()
			errs = append(errs, fmt.Errorf("%v: no adapters", api.Variant()))
			continue
		}
		return instance, pickAdapter(adapters), nil
	}
	return nil, nil, fmt.Errorf("%w: %w", ErrNoAdapter, errors.Join(errs...))
}

// pickAdapter prefers real GPUs over CPU and virtual adapters.
func pickAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU:
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func newDevice(device hal.Device, queue hal.Queue, width, height int, o *options) (*Device, error) {
	d := &Device{
		device:    device,
		queue:     queue,
		spirv:     o.spirv,
		period:    queue.GetTimestampPeriod(),
		shaders:   make(map[render.ShaderKind]hal.ShaderModule),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		meshes:    make(map[*render.Mesh]*meshBuffers),
	}
	d.timestamps = d.probeTimestamps()

	if err := d.createShared(); err != nil {
		d.release()
		return nil, err
	}
	screen, err := d.newFramebuffer("postfx_screen", max(width, 1), max(height, 1))
	if err != nil {
		d.release()
		return nil, err
	}
	d.screen = screen
	w, h := screen.Size()
	d.viewport = [4]int{0, 0, w, h}
	return d, nil
}

// Name returns "wgpu".
func (d *Device) Name() string { return Name }

// HAL returns the underlying HAL device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// Timestamps reports whether timer queries use GPU timestamps. When false
// they measure from Begin until the last submission before End completes.
func (d *Device) Timestamps() bool { return d.timestamps }

// LiveHandles returns the number of allocated attachments, counting the
// default framebuffer. Resizing never changes it.
func (d *Device) LiveHandles() int { return d.live }

// NewFramebuffer allocates an RGBA8 color texture and a
// Depth24PlusStencil8 attachment.
func (d *Device) NewFramebuffer(width, height int) (render.Framebuffer, error) {
	if d.closed {
		return nil, render.ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid framebuffer size %dx%d", width, height)
	}
	fb, err := d.newFramebuffer("postfx_target", width, height)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// Screen returns the default framebuffer.
func (d *Device) Screen() render.Framebuffer { return d.screen }

// BindFramebuffer selects the draw destination. Nil selects the screen.
func (d *Device) BindFramebuffer(fb render.Framebuffer) {
	if fb == nil {
		d.bound = nil
		return
	}
	f, ok := fb.(*framebuffer)
	if !ok {
		d.fail(fmt.Errorf("bind framebuffer: %T is not a wgpu framebuffer", fb))
		return
	}
	d.bound = f
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

// SetDepthTest toggles the LESS depth test and depth writes of mesh draws.
func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }

// BindTexture binds a texture to a sampler unit.
func (d *Device) BindTexture(unit int, tex render.Texture) {
	if unit < 0 || unit >= maxUnits {
		render.Logger().Warn("wgpu: texture unit out of range", "unit", unit)
		return
	}
	if tex == nil {
		d.units[unit] = nil
		return
	}
	t, ok := tex.(*texture)
	if !ok {
		d.fail(fmt.Errorf("bind texture: %T is not a wgpu texture", tex))
		return
	}
	d.units[unit] = t
}

// unit returns the texture bound to unit, or the 1x1 black texture.
func (d *Device) unit(i int) *texture {
	if i >= 0 && i < maxUnits && d.units[i] != nil && d.units[i].view != nil {
		return d.units[i]
	}
	return d.dummy
}

// NewProgram returns the program for kind. Pipelines are built lazily on
// first draw.
func (d *Device) NewProgram(kind render.ShaderKind) (render.Program, error) {
	if d.closed {
		return nil, render.ErrClosed
	}
	if _, err := d.shader(kind); err != nil {
		return nil, err
	}
	return &program{dev: d, kind: kind}, nil
}

// Err returns the first deferred error.
func (d *Device) Err() error { return d.err }

func (d *Device) fail(err error) {
	if d.err == nil {
		d.err = fmt.Errorf("wgpu: %w", err)
		render.Logger().Warn("wgpu: command failed", "err", err)
	}
}

// Close waits for the GPU and releases every object the device created.
// The HAL device itself is destroyed only when New opened it.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if err := d.device.WaitIdle(); err != nil {
		render.Logger().Warn("wgpu: wait idle on close", "err", err)
	}
	if d.screen != nil {
		d.screen.Release()
		d.screen = nil
	}
	d.active = nil
	d.release()
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
}

// release frees the shared objects and flushes the retire list without
// waiting on the queue.
func (d *Device) release() {
	for m, mb := range d.meshes {
		mb.destroy(d.device)
		delete(d.meshes, m)
	}
	for k, p := range d.pipelines {
		d.device.DestroyRenderPipeline(p)
		delete(d.pipelines, k)
	}
	for k, s := range d.shaders {
		d.device.DestroyShaderModule(s)
		delete(d.shaders, k)
	}
	if d.dummy != nil {
		d.dummy.destroy()
		d.dummy = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.layout != nil {
		d.device.DestroyBindGroupLayout(d.layout)
		d.layout = nil
	}
	for _, r := range d.retired {
		r.release()
	}
	d.retired = nil
}

// retire schedules release after the most recent submission completes.
func (d *Device) retire(release func()) {
	d.retired = append(d.retired, retired{index: d.lastSubmit, release: release})
}

// reclaim releases retired objects whose submission has completed.
func (d *Device) reclaim() {
	done := d.queue.PollCompleted()
	keep := d.retired[:0]
	for _, r := range d.retired {
		if r.index <= done {
			r.release()
			continue
		}
		keep = append(keep, r)
	}
	clear(d.retired[len(keep):])
	d.retired = keep
}

// Pending returns the number of objects awaiting release.
func (d *Device) Pending() int { return len(d.retired) }

func (d *Device) beginEncoder(label string) (hal.CommandEncoder, bool) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		d.fail(fmt.Errorf("create command encoder: %w", err))
		return nil, false
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.Destroy()
		d.fail(fmt.Errorf("begin encoding: %w", err))
		return nil, false
	}
	return encoder, true
}

// submit finishes encoder and submits it. It reports false when the work
// never reached the queue.
func (d *Device) submit(encoder hal.CommandEncoder) bool {
	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.Destroy()
		d.fail(fmt.Errorf("end encoding: %w", err))
		return false
	}
	if !d.owned {
		// Offscreen work must not consume the host's swapchain semaphores.
		d.queue.SetSwapchainSuppressed(true)
		defer d.queue.SetSwapchainSuppressed(false)
	}
	index, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		d.device.FreeCommandBuffer(cmd)
		encoder.Destroy()
		d.fail(fmt.Errorf("submit: %w", err))
		return false
	}
	d.lastSubmit = index
	d.retire(func() {
		d.device.FreeCommandBuffer(cmd)
		encoder.Destroy()
	})
	d.reclaim()
	return true
}
