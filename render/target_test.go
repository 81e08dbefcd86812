// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"errors"
	"testing"

	"github.com/gogpu/postfx/backend/software"
	"github.com/gogpu/postfx/render"
)

func TestNewRenderTarget(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		wantW, wantH int
	}{
		{"square", 64, 64, 64, 64},
		{"wide", 320, 20, 320, 20},
		{"tall", 20, 320, 20, 320},
		{"zero clamps", 0, -3, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := software.New(8, 8)
			defer dev.Close()

			rt, err := render.NewRenderTarget(dev, tt.width, tt.height)
			if err != nil {
				t.Fatalf("NewRenderTarget() error = %v", err)
			}
			defer rt.Close()

			if w, h := rt.Size(); w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if w, h := rt.ColorTexture().Size(); w != tt.wantW || h != tt.wantH {
				t.Errorf("ColorTexture().Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderTargetBindSetsViewport(t *testing.T) {
	dev := software.New(100, 50)
	defer dev.Close()
	rec := render.NewRecorder(dev)

	rt, err := render.NewRenderTarget(rec, 30, 20)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	rt.Bind()
	render.Unbind(rec)

	ev := rec.Events()
	if len(ev) != 3 {
		t.Fatalf("got %d events, want bind, viewport, bind", len(ev))
	}
	if ev[0].Op != render.OpBind || ev[0].Target != rt.Framebuffer() {
		t.Errorf("event 0 = %v to %v, want bind of target", ev[0].Op, ev[0].Target)
	}
	if ev[1].Op != render.OpViewport || ev[1].Viewport != [4]int{0, 0, 30, 20} {
		t.Errorf("event 1 = %v %v, want viewport 30x20", ev[1].Op, ev[1].Viewport)
	}
	if ev[2].Op != render.OpBind || ev[2].Target != nil {
		t.Errorf("Unbind should bind the default target and leave the viewport alone, got %v", ev[2].Op)
	}
}

func TestRenderTargetResizeRoundTrip(t *testing.T) {
	dev := software.New(8, 8)
	defer dev.Close()

	rt, err := render.NewRenderTarget(dev, 64, 48)
	if err != nil {
		t.Fatal(err)
	}
	tex := rt.ColorTexture()
	fb := rt.Framebuffer()
	handles := dev.LiveHandles()

	for i := 0; i < 10; i++ {
		if err := rt.Resize(128+i, 96); err != nil {
			t.Fatalf("Resize up: %v", err)
		}
		if err := rt.Resize(64, 48); err != nil {
			t.Fatalf("Resize back: %v", err)
		}
	}

	if rt.ColorTexture() != tex || rt.Framebuffer() != fb {
		t.Error("resize changed attachment identity")
	}
	if w, h := tex.Size(); w != 64 || h != 48 {
		t.Errorf("texture size = %dx%d, want 64x48", w, h)
	}
	if got := dev.LiveHandles(); got != handles {
		t.Errorf("LiveHandles = %d after resizes, want %d", got, handles)
	}

	rt.Close()
	rt.Close()
	if got := dev.LiveHandles(); got != handles-2 {
		t.Errorf("LiveHandles after Close = %d, want %d", got, handles-2)
	}
}

// incompleteDevice hands out framebuffers that fail the completeness check.
type incompleteDevice struct {
	*software.Device
	released int
}

type incompleteFB struct {
	render.Framebuffer
	dev *incompleteDevice
}

func (f incompleteFB) Complete() error { return render.ErrIncompleteFramebuffer }
func (f incompleteFB) Release() {
	f.dev.released++
	f.Framebuffer.Release()
}

func (d *incompleteDevice) NewFramebuffer(w, h int) (render.Framebuffer, error) {
	fb, err := d.Device.NewFramebuffer(w, h)
	if err != nil {
		return nil, err
	}
	return incompleteFB{Framebuffer: fb, dev: d}, nil
}

func TestNewRenderTargetIncomplete(t *testing.T) {
	dev := &incompleteDevice{Device: software.New(4, 4)}
	defer dev.Close()

	rt, err := render.NewRenderTarget(dev, 16, 16)
	if !errors.Is(err, render.ErrIncompleteFramebuffer) {
		t.Fatalf("NewRenderTarget() error = %v, want ErrIncompleteFramebuffer", err)
	}
	if rt != nil {
		t.Error("expected nil target on failure")
	}
	if dev.released != 1 {
		t.Errorf("incomplete framebuffer released %d times, want 1", dev.released)
	}
}

func TestRenderTargetAfterClose(t *testing.T) {
	dev := software.New(8, 8)
	defer dev.Close()
	rec := render.NewRecorder(dev)

	rt, err := render.NewRenderTarget(rec, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	rt.Close()
	rt.Close()

	if err := rt.Resize(32, 32); !errors.Is(err, render.ErrClosed) {
		t.Errorf("Resize() after Close error = %v, want ErrClosed", err)
	}
	if w, h := rt.Size(); w != 16 || h != 16 {
		t.Errorf("Size() = %dx%d after failed resize, want 16x16", w, h)
	}
	if tex := rt.ColorTexture(); tex != nil {
		t.Errorf("ColorTexture() after Close = %v, want nil", tex)
	}

	rt.Bind()
	if ev := rec.Events(); len(ev) != 0 {
		t.Errorf("Bind() after Close recorded %d events, want none", len(ev))
	}
}
