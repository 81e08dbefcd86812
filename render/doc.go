// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the backend-neutral layer the post-processing stages
// draw through.
//
// The package defines the device abstraction, the offscreen targets built
// on it, and the small amount of geometry the stages need. Backends live in
// sub-packages of postfx/backend and register themselves by name.
//
// # Core Types
//
//   - Device: bind/clear/draw state machine with deferred errors (Err)
//   - Framebuffer, Texture: color + depth/stencil attachments that resize
//     in place and keep their identity
//   - Program: one compiled shader kind with by-name uniforms
//   - TimerQuery: non-blocking GPU elapsed-time query
//   - RenderTarget: an owned Framebuffer with a stable color texture
//   - Mesh: indexed triangle geometry for the scene and occlusion passes
//
// # Shader Kinds
//
// Programs are selected by ShaderKind rather than compiled from source:
//
//	ShaderScreen           passthrough of screenTexture
//	ShaderBrightPass       keeps pixels brighter than threshold
//	ShaderBlur             9-tap Gaussian, horizontal or vertical
//	ShaderBloomComposite   scene + bloomStrength * bloomBlur
//	ShaderOcclusion        white light orb, black occluders
//	ShaderRadialBlur       light scattering toward lightScreenPos
//	ShaderGodRayComposite  scene + godRayStrength * godRays
//	ShaderUnlit            flat-colored mesh
//
// Every backend implements every kind with the same uniform names, so a
// stage written against one backend runs unchanged on another.
//
// # Usage
//
//	dev, _ := backend.Default(1280, 720)
//	defer dev.Close()
//
//	rt, err := render.NewRenderTarget(dev, 1280, 720)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	rt.Bind()
//	dev.Clear(render.Black, render.ClearColor|render.ClearDepth)
//	drawScene()
//
//	dev.BindFramebuffer(nil)
//	screen, _ := dev.NewProgram(render.ShaderScreen)
//	screen.Use()
//	screen.SetInt("screenTexture", 0)
//	dev.BindTexture(0, rt.ColorTexture())
//	dev.DrawFullscreen()
//
// # Conventions
//
// Texture coordinates and viewports follow OpenGL: the origin is the
// bottom-left corner. FloatImage, returned by Device.ReadTexture, is stored
// top-down like image.Image.
//
// # Thread Safety
//
// A Device and everything created from it are used from a single
// goroutine. SetLogger may be called at any time.
package render
