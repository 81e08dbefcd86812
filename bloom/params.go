// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bloom

// Params controls one frame of bloom.
type Params struct {
	// Threshold is the minimum luminance that contributes to bloom.
	// Zero lets every pixel through.
	Threshold float32 `toml:"threshold" yaml:"threshold"`

	// Strength scales the blurred highlights before they are added.
	Strength float32 `toml:"strength" yaml:"strength"`

	// Enabled switches the effect. When false the scene is copied to the
	// output unchanged.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// BlurIterations is the number of horizontal+vertical blur pairs.
	BlurIterations int `toml:"blur_iterations" yaml:"blur_iterations"`
}

// DefaultParams returns threshold 0.8, strength 1, enabled, 5 iterations.
func DefaultParams() Params {
	return Params{
		Threshold:      0.8,
		Strength:       1.0,
		Enabled:        true,
		BlurIterations: 5,
	}
}
