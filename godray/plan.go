// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package godray

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// lightMargin is how far outside the unit NDC square, per axis, the light
// may sit and still cast rays onto the screen.
const lightMargin = 2

// LightProjection is the light position after projection.
type LightProjection struct {
	// Screen is the position in [0,1] texture space, origin bottom-left,
	// clamped to [-1, 2] per axis.
	Screen mgl32.Vec2

	// NDC is the position after the perspective divide. It is zero when
	// the light is behind the camera.
	NDC mgl32.Vec3

	// Visible reports whether rays should be drawn.
	Visible bool
}

// ProjectLight projects a world-space light position. A light at or
// behind the eye plane yields the screen center and Visible false.
func ProjectLight(light mgl32.Vec3, view, proj mgl32.Mat4) LightProjection {
	clip := proj.Mul4(view).Mul4x1(light.Vec4(1))
	if clip.W() <= 0 {
		return LightProjection{Screen: mgl32.Vec2{0.5, 0.5}}
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	visible := math32.Abs(ndc.X()) <= lightMargin &&
		math32.Abs(ndc.Y()) <= lightMargin &&
		ndc.Z() >= -1 && ndc.Z() <= 1
	return LightProjection{
		Screen: mgl32.Vec2{
			mgl32.Clamp((ndc.X()+1)*0.5, -1, 2),
			mgl32.Clamp((ndc.Y()+1)*0.5, -1, 2),
		},
		NDC:     ndc,
		Visible: visible,
	}
}

// OutcomeKind is what a frame ends up presenting.
type OutcomeKind uint8

const (
	Composited OutcomeKind = iota
	DebugOcclusion
	DebugRadialBlur
)

func (k OutcomeKind) String() string {
	switch k {
	case Composited:
		return "composited"
	case DebugOcclusion:
		return "debug-occlusion"
	case DebugRadialBlur:
		return "debug-radial-blur"
	}
	return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
}

// Outcome describes the passes of one frame.
type Outcome struct {
	Kind OutcomeKind

	// RunRadialBlur is false when the radial target is cleared instead of
	// drawn, or not touched at all (DebugOcclusion).
	RunRadialBlur bool
}

// Plan decides the passes of a frame. The occlusion pass always runs.
func Plan(mode DebugMode, lp LightProjection) Outcome {
	switch mode {
	case ShowOcclusion:
		return Outcome{Kind: DebugOcclusion}
	case ShowRadialBlur:
		return Outcome{Kind: DebugRadialBlur, RunRadialBlur: lp.Visible}
	}
	return Outcome{Kind: Composited, RunRadialBlur: lp.Visible}
}
