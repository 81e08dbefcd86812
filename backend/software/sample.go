// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "github.com/chewxy/math32"

type vec4 = [4]float32

var opaqueBlack = vec4{0, 0, 0, 1}

// texel reads with clamp-to-edge addressing.
func (t *texture) texel(x, y int) vec4 {
	x = min(max(x, 0), t.w-1)
	y = min(max(y, 0), t.h-1)
	i := (y*t.w + x) * 4
	return vec4{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// sample is a bilinear, clamp-to-edge lookup at normalized (u, v) with
// texel centers at (i+0.5)/size. A nil or released texture reads opaque
// black, like an incomplete GL texture.
func (t *texture) sample(u, v float32) vec4 {
	if t == nil || t.pix == nil || t.w == 0 || t.h == 0 {
		return opaqueBlack
	}
	x := u*float32(t.w) - 0.5
	y := v*float32(t.h) - 0.5
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	c00 := t.texel(ix, iy)
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)

	var out vec4
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*fx
		bot := c01[i] + (c11[i]-c01[i])*fx
		out[i] = top + (bot-top)*fy
	}
	return out
}

// store writes one pixel, clamping like a UNORM attachment.
func (t *texture) store(x, y int, c vec4) {
	i := (y*t.w + x) * 4
	t.pix[i] = clamp01(c[0])
	t.pix[i+1] = clamp01(c[1])
	t.pix[i+2] = clamp01(c[2])
	t.pix[i+3] = clamp01(c[3])
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}

func (d *Device) unit(i int) *texture {
	if i < 0 || i >= maxUnits {
		return nil
	}
	return d.units[i]
}
