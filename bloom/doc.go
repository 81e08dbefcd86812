// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bloom implements a threshold bloom stage.
//
// Each frame the stage renders the caller's scene into an offscreen
// target, extracts the pixels brighter than a threshold, blurs them with
// a separable Gaussian in ping-pong fashion and adds the result back on
// top of the scene:
//
//	scene ─▶ bright pass ─▶ blur A ⇄ blur B ─▶ composite
//	  └────────────────────────────────────────▲
//
// The stage owns four render targets of window size. With
// WithOffscreenComposite it owns a fifth and writes the composite there
// instead of the default target, so a later stage can sample it.
//
// Usage:
//
//	st, err := bloom.New(dev, 1280, 720)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	st.Render(drawScene, bloom.DefaultParams(), 1280, 720)
package bloom
