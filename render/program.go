// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderKind identifies one of the built-in programs.
//
// Shader sources live in the backends. Each kind documents the uniforms it
// reads; setting any other name is ignored.
type ShaderKind uint8

const (
	// ShaderScreen copies screenTexture to the destination.
	ShaderScreen ShaderKind = iota

	// ShaderBrightPass keeps pixels of screenTexture whose luminance is at
	// least threshold and zeroes the rest.
	ShaderBrightPass

	// ShaderBlur runs one direction of a separable 9-tap Gaussian over
	// image. The bool horizontal selects the axis.
	ShaderBlur

	// ShaderBloomComposite adds bloomBlur * bloomStrength to scene.
	ShaderBloomComposite

	// ShaderOcclusion draws meshes with view, projection and model. Meshes
	// with isOrb set come out white, everything else black.
	ShaderOcclusion

	// ShaderRadialBlur accumulates occlusionTexture toward lightScreenPos
	// using exposure, decay, density, weight and numSamples.
	ShaderRadialBlur

	// ShaderGodRayComposite adds godRays * godRayStrength to scene.
	ShaderGodRayComposite

	// ShaderUnlit draws meshes with view, projection and model in a flat
	// color (vec3).
	ShaderUnlit

	shaderKindCount
)

var shaderNames = [...]string{
	ShaderScreen:          "screen",
	ShaderBrightPass:      "bright_pass",
	ShaderBlur:            "blur",
	ShaderBloomComposite:  "bloom_composite",
	ShaderOcclusion:       "occlusion",
	ShaderRadialBlur:      "radial_blur",
	ShaderGodRayComposite: "godray_composite",
	ShaderUnlit:           "unlit",
}

// String returns the shader name.
func (k ShaderKind) String() string {
	if k < shaderKindCount {
		return shaderNames[k]
	}
	return fmt.Sprintf("ShaderKind(%d)", uint8(k))
}

// Valid reports whether k names a built-in program.
func (k ShaderKind) Valid() bool { return k < shaderKindCount }

// ShaderKinds returns every built-in kind in declaration order.
func ShaderKinds() []ShaderKind {
	kinds := make([]ShaderKind, 0, shaderKindCount)
	for k := ShaderKind(0); k < shaderKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Program is a compiled shader program with named uniforms.
//
// Uniform values persist on the program between draws, as in OpenGL.
// Sampler uniforms are ints naming the texture unit to read.
type Program interface {
	Kind() ShaderKind

	// Use makes the program current for subsequent draws.
	Use()

	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetBool(name string, v bool)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, v mgl32.Mat4)

	Release()
}
