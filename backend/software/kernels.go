// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "github.com/gogpu/postfx/render"

// Gaussian weights for the 9-tap separable blur: center, then offsets 1..4.
var blurWeights = [5]float32{0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216}

// maxRadialSamples bounds the radial blur loop.
const maxRadialSamples = 1024

// kernel shades one fullscreen fragment at normalized (u, v), origin
// bottom-left.
type kernel func(u, v float32) vec4

// fullscreenKernel binds the current uniforms and textures of p into a
// kernel. Mesh-only programs return nil.
func (d *Device) fullscreenKernel(p *program) kernel {
	switch p.kind {
	case render.ShaderScreen:
		src := d.unit(p.Unit("screenTexture"))
		return func(u, v float32) vec4 {
			return src.sample(u, v)
		}

	case render.ShaderBrightPass:
		src := d.unit(p.Unit("screenTexture"))
		threshold, _ := p.Float("threshold")
		return func(u, v float32) vec4 {
			return brightPass(src.sample(u, v), threshold)
		}

	case render.ShaderBlur:
		src := d.unit(p.Unit("image"))
		horizontal, _ := p.Bool("horizontal")
		return blurKernel(src, horizontal)

	case render.ShaderBloomComposite:
		scene := d.unit(p.Unit("scene"))
		bloom := d.unit(p.Unit("bloomBlur"))
		strength, _ := p.Float("bloomStrength")
		return func(u, v float32) vec4 {
			return additive(scene.sample(u, v), bloom.sample(u, v), strength)
		}

	case render.ShaderRadialBlur:
		return d.radialKernel(p)

	case render.ShaderGodRayComposite:
		scene := d.unit(p.Unit("scene"))
		rays := d.unit(p.Unit("godRays"))
		strength, _ := p.Float("godRayStrength")
		return func(u, v float32) vec4 {
			return additive(scene.sample(u, v), rays.sample(u, v), strength)
		}
	}
	return nil
}

// luminance uses Rec. 709 weights.
func luminance(c vec4) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

func brightPass(c vec4, threshold float32) vec4 {
	if luminance(c) >= threshold {
		return vec4{c[0], c[1], c[2], 1}
	}
	return opaqueBlack
}

func blurKernel(src *texture, horizontal bool) kernel {
	var du, dv float32
	if src != nil && src.w > 0 && src.h > 0 {
		if horizontal {
			du = 1 / float32(src.w)
		} else {
			dv = 1 / float32(src.h)
		}
	}
	return func(u, v float32) vec4 {
		c := src.sample(u, v)
		var out vec4
		for i := 0; i < 3; i++ {
			out[i] = c[i] * blurWeights[0]
		}
		for k := 1; k < len(blurWeights); k++ {
			off := float32(k)
			a := src.sample(u+du*off, v+dv*off)
			b := src.sample(u-du*off, v-dv*off)
			for i := 0; i < 3; i++ {
				out[i] += (a[i] + b[i]) * blurWeights[k]
			}
		}
		out[3] = 1
		return out
	}
}

func additive(base, add vec4, strength float32) vec4 {
	return vec4{
		base[0] + add[0]*strength,
		base[1] + add[1]*strength,
		base[2] + add[2]*strength,
		1,
	}
}

// radialKernel marches from each fragment toward the light, accumulating
// decayed, weighted samples of the occlusion mask.
func (d *Device) radialKernel(p *program) kernel {
	mask := d.unit(p.Unit("occlusionTexture"))
	light, _ := p.Vec2("lightScreenPos")
	exposure, _ := p.Float("exposure")
	decay, _ := p.Float("decay")
	density, _ := p.Float("density")
	weight, _ := p.Float("weight")
	n, _ := p.Int("numSamples")
	samples := int(min(max(n, 1), maxRadialSamples))
	inv := 1 / float32(samples)

	return func(u, v float32) vec4 {
		du := (u - light[0]) * inv * density
		dv := (v - light[1]) * inv * density
		tu, tv := u, v
		illum := float32(1)
		var acc [3]float32
		for i := 0; i < samples; i++ {
			tu -= du
			tv -= dv
			s := mask.sample(tu, tv)
			f := illum * weight
			acc[0] += s[0] * f
			acc[1] += s[1] * f
			acc[2] += s[2] * f
			illum *= decay
		}
		return vec4{acc[0] * exposure, acc[1] * exposure, acc[2] * exposure, 1}
	}
}

// meshColor returns the flat fragment color of a mesh program.
func meshColor(p *program) (vec4, bool) {
	switch p.kind {
	case render.ShaderOcclusion:
		if orb, _ := p.Bool("isOrb"); orb {
			return vec4{1, 1, 1, 1}, true
		}
		return opaqueBlack, true
	case render.ShaderUnlit:
		c, ok := p.Vec3("color")
		if !ok {
			return vec4{1, 1, 1, 1}, true
		}
		return vec4{c[0], c[1], c[2], 1}, true
	}
	return vec4{}, false
}

// DrawFullscreen runs the current fullscreen program over the viewport.
func (d *Device) DrawFullscreen() {
	p := d.current
	if p == nil {
		render.Logger().Warn("software: draw without program")
		return
	}
	k := d.fullscreenKernel(p)
	if k == nil {
		render.Logger().Warn("software: program cannot draw fullscreen", "shader", p.kind)
		return
	}
	fb := d.target()
	x0, y0, x1, y1, ok := d.clipViewport(fb)
	if !ok {
		return
	}
	vx, vy := float32(d.viewport[0]), float32(d.viewport[1])
	vw, vh := float32(d.viewport[2]), float32(d.viewport[3])
	d.fail(d.parallelRows(y0, y1, func(y int) {
		v := (float32(y) + 0.5 - vy) / vh
		for x := x0; x < x1; x++ {
			u := (float32(x) + 0.5 - vx) / vw
			fb.color.store(x, y, k(u, v))
		}
	}))
}

// clipViewport intersects the viewport with the framebuffer bounds.
func (d *Device) clipViewport(fb *framebuffer) (x0, y0, x1, y1 int, ok bool) {
	vp := d.viewport
	if vp[2] <= 0 || vp[3] <= 0 || fb.color.pix == nil {
		return 0, 0, 0, 0, false
	}
	x0, y0 = max(vp[0], 0), max(vp[1], 0)
	x1 = min(vp[0]+vp[2], fb.color.w)
	y1 = min(vp[1]+vp[3], fb.color.h)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}
