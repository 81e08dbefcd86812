// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package godray

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDebugMode is returned for debug selectors outside 0..3.
var ErrInvalidDebugMode = errors.New("godray: invalid debug mode")

// DebugMode selects what the stage presents.
type DebugMode uint8

const (
	// Off composites the rays over the scene.
	Off DebugMode = iota

	// ShowOcclusion presents the occlusion mask and skips the rest.
	ShowOcclusion

	// ShowRadialBlur presents the rays alone.
	ShowRadialBlur
)

var debugNames = [...]string{
	Off:            "off",
	ShowOcclusion:  "occlusion",
	ShowRadialBlur: "radial_blur",
}

func (m DebugMode) String() string {
	if int(m) < len(debugNames) {
		return debugNames[m]
	}
	return fmt.Sprintf("DebugMode(%d)", uint8(m))
}

// ParseDebugMode maps a numeric UI selector onto a mode. Selector 3
// ("rays only") shows the same buffer as 2.
func ParseDebugMode(v int) (DebugMode, error) {
	switch v {
	case 0:
		return Off, nil
	case 1:
		return ShowOcclusion, nil
	case 2, 3:
		return ShowRadialBlur, nil
	}
	return Off, fmt.Errorf("%w: %d", ErrInvalidDebugMode, v)
}

// MarshalText implements encoding.TextMarshaler.
func (m DebugMode) MarshalText() ([]byte, error) {
	if int(m) >= len(debugNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDebugMode, m)
	}
	return []byte(debugNames[m]), nil
}

// UnmarshalText accepts a mode name or a numeric selector.
func (m *DebugMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range debugNames {
		if s == name {
			*m = DebugMode(i)
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDebugMode, s)
	}
	mode, err := ParseDebugMode(n)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Params controls one frame of god rays.
type Params struct {
	Exposure   float32   `toml:"exposure" yaml:"exposure"`
	Decay      float32   `toml:"decay" yaml:"decay"`
	Density    float32   `toml:"density" yaml:"density"`
	Weight     float32   `toml:"weight" yaml:"weight"`
	NumSamples int       `toml:"num_samples" yaml:"num_samples"`
	Strength   float32   `toml:"strength" yaml:"strength"`
	Debug      DebugMode `toml:"debug" yaml:"debug"`
}

// DefaultParams returns the stock look: exposure 0.5, decay 0.97,
// density 0.8, weight 0.3, 100 samples, strength 1, no debug view.
func DefaultParams() Params {
	return Params{
		Exposure:   0.5,
		Decay:      0.97,
		Density:    0.8,
		Weight:     0.3,
		NumSamples: 100,
		Strength:   1.0,
		Debug:      Off,
	}
}
