// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package godray

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	d := a - b
	return d > -1e-4 && d < 1e-4
}

func TestProjectLightBehindCamera(t *testing.T) {
	view := mgl32.Ident4()
	proj := mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100)

	for _, z := range []float32{5, 0.5, 0} {
		lp := ProjectLight(mgl32.Vec3{1, 2, z}, view, proj)
		if lp.Visible {
			t.Errorf("z=%v: light behind the camera reported visible", z)
		}
		if lp.Screen != (mgl32.Vec2{0.5, 0.5}) {
			t.Errorf("z=%v: Screen = %v, want sentinel (0.5, 0.5)", z, lp.Screen)
		}
	}
}

func TestProjectLightCentered(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)
	eye := mgl32.Vec3{3, 1, 7}
	target := mgl32.Vec3{-2, 0.5, -1}
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})

	lp := ProjectLight(target, view, proj)
	if !lp.Visible {
		t.Fatal("light on the view axis reported invisible")
	}
	if !near(lp.Screen.X(), 0.5) || !near(lp.Screen.Y(), 0.5) {
		t.Errorf("Screen = %v, want (0.5, 0.5)", lp.Screen)
	}
}

func TestProjectLightMargins(t *testing.T) {
	// Identity matrices make NDC equal to the world position.
	id := mgl32.Ident4()
	tests := []struct {
		name    string
		light   mgl32.Vec3
		visible bool
		screen  mgl32.Vec2
	}{
		{"corner", mgl32.Vec3{1, -1, 0}, true, mgl32.Vec2{1, 0}},
		{"inside margin", mgl32.Vec3{1.5, -1.5, 0}, true, mgl32.Vec2{1.25, -0.25}},
		{"on margin", mgl32.Vec3{2, 2, 0}, true, mgl32.Vec2{1.5, 1.5}},
		{"past margin", mgl32.Vec3{2.5, 0, 0}, false, mgl32.Vec2{1.75, 0.5}},
		{"clamped", mgl32.Vec3{9, -9, 0}, false, mgl32.Vec2{2, -1}},
		{"beyond far", mgl32.Vec3{0, 0, 1.5}, false, mgl32.Vec2{0.5, 0.5}},
		{"before near", mgl32.Vec3{0, 0, -1.01}, false, mgl32.Vec2{0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := ProjectLight(tt.light, id, id)
			if lp.Visible != tt.visible {
				t.Errorf("Visible = %v, want %v", lp.Visible, tt.visible)
			}
			if !near(lp.Screen.X(), tt.screen.X()) || !near(lp.Screen.Y(), tt.screen.Y()) {
				t.Errorf("Screen = %v, want %v", lp.Screen, tt.screen)
			}
			if lp.NDC != tt.light {
				t.Errorf("NDC = %v, want %v", lp.NDC, tt.light)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	visible := LightProjection{Screen: mgl32.Vec2{0.5, 0.5}, Visible: true}
	hidden := LightProjection{Screen: mgl32.Vec2{0.5, 0.5}}

	tests := []struct {
		mode DebugMode
		lp   LightProjection
		want Outcome
	}{
		{Off, visible, Outcome{Kind: Composited, RunRadialBlur: true}},
		{Off, hidden, Outcome{Kind: Composited}},
		{ShowOcclusion, visible, Outcome{Kind: DebugOcclusion}},
		{ShowOcclusion, hidden, Outcome{Kind: DebugOcclusion}},
		{ShowRadialBlur, visible, Outcome{Kind: DebugRadialBlur, RunRadialBlur: true}},
		{ShowRadialBlur, hidden, Outcome{Kind: DebugRadialBlur}},
	}
	for _, tt := range tests {
		if got := Plan(tt.mode, tt.lp); got != tt.want {
			t.Errorf("Plan(%v, visible=%v) = %+v, want %+v", tt.mode, tt.lp.Visible, got, tt.want)
		}
	}
}

func TestParseDebugMode(t *testing.T) {
	tests := []struct {
		in   int
		want DebugMode
		err  bool
	}{
		{0, Off, false},
		{1, ShowOcclusion, false},
		{2, ShowRadialBlur, false},
		{3, ShowRadialBlur, false},
		{4, Off, true},
		{-1, Off, true},
	}
	for _, tt := range tests {
		got, err := ParseDebugMode(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseDebugMode(%d) error = %v", tt.in, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidDebugMode) {
			t.Errorf("ParseDebugMode(%d) error = %v, want ErrInvalidDebugMode", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDebugMode(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDebugModeText(t *testing.T) {
	tests := map[string]DebugMode{
		"off":         Off,
		"Occlusion":   ShowOcclusion,
		"radial_blur": ShowRadialBlur,
		"3":           ShowRadialBlur,
		" 1 ":         ShowOcclusion,
	}
	for in, want := range tests {
		var m DebugMode
		if err := m.UnmarshalText([]byte(in)); err != nil {
			t.Errorf("UnmarshalText(%q) error = %v", in, err)
			continue
		}
		if m != want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", in, m, want)
		}
	}

	var m DebugMode
	if err := m.UnmarshalText([]byte("sparkles")); !errors.Is(err, ErrInvalidDebugMode) {
		t.Errorf("UnmarshalText(sparkles) error = %v", err)
	}
	if b, err := ShowRadialBlur.MarshalText(); err != nil || string(b) != "radial_blur" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
	if _, err := DebugMode(9).MarshalText(); err == nil {
		t.Error("MarshalText of an invalid mode succeeded")
	}
}
