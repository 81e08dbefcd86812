// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"math"
)

// FloatImage is a CPU copy of a texture in linear float RGBA.
//
// Rows are stored top to bottom (image convention), regardless of the
// backend's native origin.
type FloatImage struct {
	Width, Height int
	Pix           []float32
}

// NewFloatImage allocates a black, transparent image.
func NewFloatImage(width, height int) *FloatImage {
	return &FloatImage{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

// At returns the pixel at (x, y) with y growing downwards.
func (m *FloatImage) At(x, y int) Color {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Color{}
	}
	i := (y*m.Width + x) * 4
	return Color{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}

// Set writes the pixel at (x, y).
func (m *FloatImage) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	i := (y*m.Width + x) * 4
	m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = c.R, c.G, c.B, c.A
}

// MaxDiff returns the largest per-channel absolute difference between two
// images of the same size, or +Inf when the sizes differ.
func (m *FloatImage) MaxDiff(o *FloatImage) float64 {
	if o == nil || m.Width != o.Width || m.Height != o.Height {
		return math.Inf(1)
	}
	var d float64
	for i := range m.Pix {
		if v := math.Abs(float64(m.Pix[i] - o.Pix[i])); v > d {
			d = v
		}
	}
	return d
}

// Sum returns the sum of the RGB channels over the whole image.
func (m *FloatImage) Sum() float64 {
	var s float64
	for i := 0; i < len(m.Pix); i += 4 {
		s += float64(m.Pix[i] + m.Pix[i+1] + m.Pix[i+2])
	}
	return s
}

// NRGBA converts to an 8-bit image, clamping to [0, 1].
func (m *FloatImage) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := m.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A),
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
