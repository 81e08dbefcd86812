// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bloom

import "fmt"

// Ping names a buffer taking part in the blur.
type Ping uint8

const (
	// Bright is the bright-pass output. Only the first blur pass reads it.
	Bright Ping = iota

	// PingA receives every horizontal pass.
	PingA

	// PingB receives every vertical pass.
	PingB
)

func (p Ping) String() string {
	switch p {
	case Bright:
		return "bright"
	case PingA:
		return "A"
	case PingB:
		return "B"
	}
	return fmt.Sprintf("Ping(%d)", uint8(p))
}

// BlurPass is one directional blur draw.
type BlurPass struct {
	Horizontal bool
	Source     Ping
	Dest       Ping
}

// BlurSchedule returns the 2n passes for n blur iterations. Directions
// alternate starting horizontal; each pass after the first reads what the
// previous one wrote.
func BlurSchedule(n int) []BlurPass {
	if n <= 0 {
		return nil
	}
	passes := make([]BlurPass, 2*n)
	for i := range passes {
		horizontal := i%2 == 0
		dest, src := PingA, PingB
		if !horizontal {
			dest, src = PingB, PingA
		}
		if i == 0 {
			src = Bright
		}
		passes[i] = BlurPass{Horizontal: horizontal, Source: src, Dest: dest}
	}
	return passes
}

// Final returns the buffer the composite samples after n iterations.
// Without blur it is the bright-pass output itself.
func Final(n int) Ping {
	if n <= 0 {
		return Bright
	}
	return PingB
}
