// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings file encoding.
type Format string

// Supported settings formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// DecodeSettings parses data on top of DefaultSettings, so a file only
// needs the fields it changes. The result is validated.
func DecodeSettings(data []byte, f Format) (Settings, error) {
	s := DefaultSettings()
	var err error
	switch f {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
		if err != nil && len(bytes.TrimSpace(data)) == 0 {
			err = nil // empty document
		}
	default:
		return Settings{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: decode %s: %w", ErrInvalidSettings, f, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// EncodeSettings serializes s.
func EncodeSettings(s Settings, f Format) ([]byte, error) {
	switch f {
	case FormatTOML:
		return toml.Marshal(s)
	case FormatYAML:
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// LoadSettings reads a TOML or YAML file, chosen by extension.
func LoadSettings(path string) (Settings, error) {
	f, err := FormatFor(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("postfx: load settings: %w", err)
	}
	s, err := DecodeSettings(data, f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes s to path in the format its extension names.
func SaveSettings(path string, s Settings) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := EncodeSettings(s, f)
	if err != nil {
		return fmt.Errorf("postfx: encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("postfx: save settings: %w", err)
	}
	return nil
}
