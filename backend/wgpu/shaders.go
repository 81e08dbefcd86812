// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/postfx/render"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// fullscreenPrelude is prepended to every fullscreen fragment shader.
const fullscreenPrelude = "shaders/fullscreen.wgsl"

// isMesh reports whether kind draws meshes rather than the fullscreen quad.
func isMesh(kind render.ShaderKind) bool {
	return kind == render.ShaderOcclusion || kind == render.ShaderUnlit
}

// ShaderSource returns the complete WGSL module for kind.
func ShaderSource(kind render.ShaderKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %v", render.ErrUnknownShader, kind)
	}
	body, err := shaderFS.ReadFile("shaders/" + kind.String() + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("read %v shader: %w", kind, err)
	}
	if isMesh(kind) {
		return string(body), nil
	}
	prelude, err := shaderFS.ReadFile(fullscreenPrelude)
	if err != nil {
		return "", fmt.Errorf("read fullscreen prelude: %w", err)
	}
	return string(prelude) + "\n" + string(body), nil
}

// compileSPIRV compiles WGSL source to little-endian SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
