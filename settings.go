// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/postfx/bloom"
	"github.com/gogpu/postfx/godray"
)

// Limits enforced by Validate and Clamped.
const (
	MaxBlurIterations  = 32
	MaxRadialSamples   = 1024
	MaxProfilerHistory = 3600
)

// Settings holds every tunable of a Pipeline.
type Settings struct {
	Bloom  bloom.Params  `toml:"bloom" yaml:"bloom"`
	GodRay godray.Params `toml:"godray" yaml:"godray"`

	// GodRayScale is the god ray resolution scale in [0.25, 1]. Changing
	// it rebuilds the god ray targets at the next frame.
	GodRayScale float32 `toml:"godray_scale" yaml:"godray_scale"`

	// ProfilerHistory is the number of samples averaged per pass. It is
	// read once, when the pipeline is created.
	ProfilerHistory int `toml:"profiler_history" yaml:"profiler_history"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Bloom:           bloom.DefaultParams(),
		GodRay:          godray.DefaultParams(),
		GodRayScale:     1,
		ProfilerHistory: 60,
	}
}

// Validate reports every out-of-range field. The error wraps
// ErrInvalidSettings.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	b := s.Bloom
	check(b.Threshold >= 0, "bloom.threshold %v < 0", b.Threshold)
	check(b.Strength >= 0, "bloom.strength %v < 0", b.Strength)
	check(b.BlurIterations >= 0 && b.BlurIterations <= MaxBlurIterations,
		"bloom.blur_iterations %d outside [0, %d]", b.BlurIterations, MaxBlurIterations)

	g := s.GodRay
	check(g.Exposure >= 0, "godray.exposure %v < 0", g.Exposure)
	check(g.Decay > 0 && g.Decay <= 1, "godray.decay %v outside (0, 1]", g.Decay)
	check(g.Density >= 0, "godray.density %v < 0", g.Density)
	check(g.Weight >= 0, "godray.weight %v < 0", g.Weight)
	check(g.NumSamples >= 1 && g.NumSamples <= MaxRadialSamples,
		"godray.num_samples %d outside [1, %d]", g.NumSamples, MaxRadialSamples)
	check(g.Strength >= 0, "godray.strength %v < 0", g.Strength)
	check(g.Debug <= godray.ShowRadialBlur, "godray.debug %d unknown", g.Debug)

	check(s.GodRayScale >= godray.MinResolutionScale && s.GodRayScale <= godray.MaxResolutionScale,
		"godray_scale %v outside [%v, %v]", s.GodRayScale, godray.MinResolutionScale, godray.MaxResolutionScale)
	check(s.ProfilerHistory >= 1 && s.ProfilerHistory <= MaxProfilerHistory,
		"profiler_history %d outside [1, %d]", s.ProfilerHistory, MaxProfilerHistory)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// Clamped returns a copy with every field forced into its valid range.
func (s Settings) Clamped() Settings {
	s.Bloom.Threshold = max(s.Bloom.Threshold, 0)
	s.Bloom.Strength = max(s.Bloom.Strength, 0)
	s.Bloom.BlurIterations = min(max(s.Bloom.BlurIterations, 0), MaxBlurIterations)

	g := &s.GodRay
	g.Exposure = max(g.Exposure, 0)
	if g.Decay <= 0 || g.Decay > 1 {
		g.Decay = min(max(g.Decay, 0.01), 1)
	}
	g.Density = max(g.Density, 0)
	g.Weight = max(g.Weight, 0)
	g.NumSamples = min(max(g.NumSamples, 1), MaxRadialSamples)
	g.Strength = max(g.Strength, 0)
	if g.Debug > godray.ShowRadialBlur {
		g.Debug = godray.Off
	}

	s.GodRayScale = min(max(s.GodRayScale, godray.MinResolutionScale), godray.MaxResolutionScale)
	s.ProfilerHistory = min(max(s.ProfilerHistory, 1), MaxProfilerHistory)
	return s
}
