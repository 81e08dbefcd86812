// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUniformsTyped(t *testing.T) {
	var u Uniforms
	u.SetInt("unit", 1)
	u.SetFloat("threshold", 0.8)
	u.SetBool("horizontal", true)
	u.SetVec2("light", mgl32.Vec2{0.25, 0.75})
	u.SetVec3("color", mgl32.Vec3{1, 2, 3})
	u.SetMat4("model", mgl32.Translate3D(1, 2, 3))

	if v, ok := u.Int("unit"); !ok || v != 1 {
		t.Errorf("Int = %v, %v", v, ok)
	}
	if v, ok := u.Float("threshold"); !ok || v != 0.8 {
		t.Errorf("Float = %v, %v", v, ok)
	}
	if v, ok := u.Bool("horizontal"); !ok || !v {
		t.Errorf("Bool = %v, %v", v, ok)
	}
	if v, ok := u.Vec2("light"); !ok || v != (mgl32.Vec2{0.25, 0.75}) {
		t.Errorf("Vec2 = %v, %v", v, ok)
	}
	if v, ok := u.Vec3("color"); !ok || v != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Vec3 = %v, %v", v, ok)
	}
	if v, ok := u.Mat4("model"); !ok || v.Col(3) != (mgl32.Vec4{1, 2, 3, 1}) {
		t.Errorf("Mat4 = %v, %v", v, ok)
	}
	if u.Len() != 6 {
		t.Errorf("Len = %d, want 6", u.Len())
	}
}

func TestUniformsConversions(t *testing.T) {
	var u Uniforms
	u.SetBool("flag", true)
	u.SetInt("n", 0)
	u.SetInt("samples", 100)

	if v, ok := u.Int("flag"); !ok || v != 1 {
		t.Errorf("bool as int = %v, %v", v, ok)
	}
	if v, ok := u.Bool("n"); !ok || v {
		t.Errorf("int 0 as bool = %v, %v", v, ok)
	}
	if v, ok := u.Float("samples"); !ok || v != 100 {
		t.Errorf("int as float = %v, %v", v, ok)
	}
}

func TestUniformsMissing(t *testing.T) {
	var u Uniforms
	if _, ok := u.Float("nope"); ok {
		t.Error("missing float reported ok")
	}
	if m, ok := u.Mat4("nope"); ok || m != mgl32.Ident4() {
		t.Errorf("missing mat4 = %v, %v; want identity, false", m, ok)
	}
	if u.Unit("screenTexture") != 0 {
		t.Error("unset sampler should read unit 0")
	}
	u.SetVec2("v", mgl32.Vec2{})
	if _, ok := u.Float("v"); ok {
		t.Error("vec2 read as float")
	}
}
