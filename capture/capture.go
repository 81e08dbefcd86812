// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/postfx/render"
)

// Capture errors.
var (
	// ErrUnsupportedFormat is returned for file extensions with no encoder.
	ErrUnsupportedFormat = errors.New("capture: unsupported format")

	// ErrEmptyImage is returned when there are no pixels to encode.
	ErrEmptyImage = errors.New("capture: empty image")
)

// Format is an output image format.
type Format uint8

// Supported formats.
const (
	PNG Format = iota
	JPEG
	TIFF
	BMP
	EXR
)

var formatNames = [...]string{"png", "jpeg", "tiff", "bmp", "exr"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// HDR reports whether the format keeps values above 1.
func (f Format) HDR() bool { return f == EXR }

// jpegQuality is the quality of JPEG captures.
const jpegQuality = 95

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	case ".exr":
		return EXR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Framebuffer reads fb's color attachment back from dev.
func Framebuffer(dev render.Device, fb render.Framebuffer) (*render.FloatImage, error) {
	img, err := dev.ReadTexture(fb.ColorTexture())
	if err != nil {
		return nil, fmt.Errorf("capture: read back: %w", err)
	}
	return img, nil
}

// Save reads fb back and writes it to path in the format named by the
// extension.
func Save(path string, dev render.Device, fb render.Framebuffer) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	img, err := Framebuffer(dev, fb)
	if err != nil {
		return err
	}
	return saveImage(path, img, f)
}

// SaveImage writes img to path in the format named by the extension.
func SaveImage(path string, img *render.FloatImage) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return saveImage(path, img, f)
}

func saveImage(path string, img *render.FloatImage, f Format) error {
	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("capture: create file: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("capture: close file: %w", err)
	}
	render.Logger().Debug("capture: saved", "path", path, "format", f, "width", img.Width, "height", img.Height)
	return nil
}

// Encode writes img to w. LDR formats clamp to [0, 1]; EXR stores half
// floats and needs w to be an io.WriteSeeker.
func Encode(w io.Writer, img *render.FloatImage, f Format) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return ErrEmptyImage
	}
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img.NRGBA())
	case JPEG:
		err = jpeg.Encode(w, img.NRGBA(), &jpeg.Options{Quality: jpegQuality})
	case TIFF:
		err = tiff.Encode(w, img.NRGBA(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		err = bmp.Encode(w, img.NRGBA())
	case EXR:
		ws, ok := w.(io.WriteSeeker)
		if !ok {
			return fmt.Errorf("capture: encode exr: %T is not an io.WriteSeeker", w)
		}
		err = exr.Encode(ws, ToEXR(img))
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("capture: encode %v: %w", f, err)
	}
	return nil
}

// ToEXR converts img to an OpenEXR RGBA image without clamping.
func ToEXR(img *render.FloatImage) *exr.RGBAImage {
	out := exr.NewRGBAImage(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pix)
	return out
}

// FromEXR converts a decoded OpenEXR image back to a FloatImage.
func FromEXR(src *exr.RGBAImage) *render.FloatImage {
	b := src.Bounds()
	img := render.NewFloatImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.RGBA(x+b.Min.X, y+b.Min.Y)
			img.Set(x, y, render.Color{R: r, G: g, B: bl, A: a})
		}
	}
	return img
}
