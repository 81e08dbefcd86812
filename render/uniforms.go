// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/go-gl/mathgl/mgl32"

// Uniforms is a by-name uniform store shared by backend Program
// implementations. The zero value is ready to use.
//
// Each setter replaces any previous value under the same name, whatever
// its type. Getters report false when the name is unset or holds a
// different type.
type Uniforms struct {
	values map[string]any
}

func (u *Uniforms) set(name string, v any) {
	if u.values == nil {
		u.values = make(map[string]any)
	}
	u.values[name] = v
}

func (u *Uniforms) SetInt(name string, v int32)       { u.set(name, v) }
func (u *Uniforms) SetFloat(name string, v float32)   { u.set(name, v) }
func (u *Uniforms) SetBool(name string, v bool)       { u.set(name, v) }
func (u *Uniforms) SetVec2(name string, v mgl32.Vec2) { u.set(name, v) }
func (u *Uniforms) SetVec3(name string, v mgl32.Vec3) { u.set(name, v) }
func (u *Uniforms) SetMat4(name string, v mgl32.Mat4) { u.set(name, v) }

// Int returns an int uniform. Bools read as 0 or 1.
func (u *Uniforms) Int(name string) (int32, bool) {
	switch v := u.values[name].(type) {
	case int32:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Float returns a float uniform. Ints are converted.
func (u *Uniforms) Float(name string) (float32, bool) {
	switch v := u.values[name].(type) {
	case float32:
		return v, true
	case int32:
		return float32(v), true
	}
	return 0, false
}

// Bool returns a bool uniform. Non-zero ints read as true.
func (u *Uniforms) Bool(name string) (bool, bool) {
	switch v := u.values[name].(type) {
	case bool:
		return v, true
	case int32:
		return v != 0, true
	}
	return false, false
}

func (u *Uniforms) Vec2(name string) (mgl32.Vec2, bool) {
	v, ok := u.values[name].(mgl32.Vec2)
	return v, ok
}

func (u *Uniforms) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := u.values[name].(mgl32.Vec3)
	return v, ok
}

// Mat4 returns a matrix uniform, or the identity when unset.
func (u *Uniforms) Mat4(name string) (mgl32.Mat4, bool) {
	v, ok := u.values[name].(mgl32.Mat4)
	if !ok {
		return mgl32.Ident4(), false
	}
	return v, true
}

// Unit returns the texture unit a sampler uniform points at. Unset
// samplers read unit 0, matching the GL default.
func (u *Uniforms) Unit(name string) int {
	v, _ := u.Int(name)
	return int(v)
}

// Len returns the number of uniforms set.
func (u *Uniforms) Len() int { return len(u.values) }
