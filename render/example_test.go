// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"fmt"

	"github.com/gogpu/postfx/backend/software"
	"github.com/gogpu/postfx/render"
)

// ExampleRenderTarget draws into an offscreen target and reads it back.
func ExampleRenderTarget() {
	// The software device needs no GPU.
	dev := software.New(64, 64)
	defer dev.Close()

	rt, err := render.NewRenderTarget(dev, 32, 16)
	if err != nil {
		fmt.Println("create failed:", err)
		return
	}
	defer rt.Close()

	rt.Bind()
	dev.Clear(render.Color{R: 1, A: 1}, render.ClearColor|render.ClearDepth)
	render.Unbind(dev)

	img, err := dev.ReadTexture(rt.ColorTexture())
	if err != nil {
		fmt.Println("read failed:", err)
		return
	}
	c := img.At(0, 0)
	fmt.Printf("%dx%d first pixel %.0f %.0f %.0f %.0f\n", img.Width, img.Height, c.R, c.G, c.B, c.A)
	// Output: 32x16 first pixel 1 0 0 1
}

// ExampleRenderTarget_Resize shows that the color texture handed to a later
// pass stays valid across a resize.
func ExampleRenderTarget_Resize() {
	dev := software.New(64, 64)
	defer dev.Close()

	rt, err := render.NewRenderTarget(dev, 32, 32)
	if err != nil {
		fmt.Println("create failed:", err)
		return
	}
	defer rt.Close()

	tex := rt.ColorTexture()
	if err := rt.Resize(128, 72); err != nil {
		fmt.Println("resize failed:", err)
		return
	}
	w, h := tex.Size()
	fmt.Println(tex == rt.ColorTexture(), w, h)
	// Output: true 128 72
}
