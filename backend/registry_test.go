// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/postfx/render"
)

// stubDevice satisfies render.Device for registry tests; only Name is used.
type stubDevice struct {
	render.Device
	name string
}

func (s stubDevice) Name() string { return s.name }

func register(t *testing.T, name string, f Factory) {
	t.Helper()
	Register(name, f)
	t.Cleanup(func() { Unregister(name) })
}

func TestRegisterAndOpen(t *testing.T) {
	register(t, "stub-a", func(w, h int) (render.Device, error) {
		return stubDevice{name: "stub-a"}, nil
	})

	if !IsRegistered("stub-a") {
		t.Fatal("stub-a not registered")
	}
	if !slices.Contains(Available(), "stub-a") {
		t.Errorf("Available() = %v, missing stub-a", Available())
	}
	dev, err := Open("stub-a", 10, 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if dev.Name() != "stub-a" {
		t.Errorf("Name() = %q", dev.Name())
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("does-not-exist", 1, 1)
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open() error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefaultSkipsFailingBackends(t *testing.T) {
	for _, name := range Available() {
		f := factories[name]
		Unregister(name)
		t.Cleanup(func() { Register(name, f) })
	}

	if _, err := Default(1, 1); !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("Default() with empty registry = %v", err)
	}

	errBoom := errors.New("boom")
	register(t, NameWGPU, func(w, h int) (render.Device, error) { return nil, errBoom })
	register(t, NameSoftware, func(w, h int) (render.Device, error) {
		return stubDevice{name: NameSoftware}, nil
	})

	dev, err := Default(1, 1)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if dev.Name() != NameSoftware {
		t.Errorf("Default() picked %q, want fallback %q", dev.Name(), NameSoftware)
	}

	if _, err := Open(NameWGPU, 1, 1); !errors.Is(err, errBoom) {
		t.Errorf("Open(wgpu) error = %v, want wrapped factory error", err)
	}
}

func TestMustOpenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustOpen did not panic")
		}
	}()
	MustOpen("does-not-exist", 1, 1)
}
