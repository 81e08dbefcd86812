// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
)

// timestampBytes is the size of the two resolved uint64 timestamps.
const timestampBytes = 16

type queryState uint8

const (
	queryIdle queryState = iota
	queryRunning
	queryPending
	queryReady
)

// timerQuery times the passes recorded between Begin and End.
//
// With timestamp support the first pass after Begin writes timestamp 0
// and every pass until End writes timestamp 1. End resolves both into a
// mappable buffer. Without it the query measures wall time from Begin to
// End and reports it once the GPU has finished the last submission
// recorded before End.
type timerQuery struct {
	dev   *Device
	state queryState
	index uint64

	set      hal.QuerySet
	resolve  hal.Buffer
	readback hal.Buffer
	wrote    bool
	resolved bool

	start   time.Time
	elapsed time.Duration
}

// NewTimerQuery creates a timer query.
func (d *Device) NewTimerQuery() (render.TimerQuery, error) {
	if d.closed {
		return nil, render.ErrClosed
	}
	q := &timerQuery{dev: d}
	if !d.timestamps {
		return q, nil
	}

	var err error
	q.set, err = d.device.CreateQuerySet(&hal.QuerySetDescriptor{
		Label: "postfx_timer",
		Type:  hal.QueryTypeTimestamp,
		Count: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create query set: %w", err)
	}
	q.resolve, err = d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "postfx_timer_resolve",
		Size:  timestampBytes,
		Usage: gputypes.BufferUsageQueryResolve | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		q.destroy()
		return nil, fmt.Errorf("wgpu: create resolve buffer: %w", err)
	}
	q.readback, err = d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "postfx_timer_readback",
		Size:  timestampBytes,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		q.destroy()
		return nil, fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	return q, nil
}

func (q *timerQuery) Begin() {
	q.state = queryRunning
	q.wrote = false
	q.resolved = false
	q.elapsed = 0
	q.start = time.Now()
	q.dev.active = q
}

func (q *timerQuery) End() {
	if q.state != queryRunning {
		return
	}
	if q.dev.active == q {
		q.dev.active = nil
	}
	q.elapsed = time.Since(q.start)
	q.state = queryPending
	q.index = q.dev.lastSubmit

	if q.set == nil || !q.wrote {
		return
	}
	encoder, ok := q.dev.beginEncoder("postfx_timer_resolve")
	if !ok {
		return
	}
	encoder.ResolveQuerySet(q.set, 0, 2, q.resolve, 0)
	encoder.CopyBufferToBuffer(q.resolve, q.readback, []hal.BufferCopy{{Size: timestampBytes}})
	if q.dev.submit(encoder) {
		q.index = q.dev.lastSubmit
		q.resolved = true
	}
}

func (q *timerQuery) Result() (time.Duration, bool) {
	switch q.state {
	case queryReady:
		return q.elapsed, true
	case queryPending:
		if q.dev.queue.PollCompleted() < q.index {
			return 0, false
		}
		if q.resolved {
			if d, ok := q.readTimestamps(); ok {
				q.elapsed = d
			}
		}
		q.state = queryReady
		return q.elapsed, true
	}
	return 0, false
}

// readTimestamps maps the readback buffer and converts the tick delta to
// a duration.
func (q *timerQuery) readTimestamps() (time.Duration, bool) {
	m, err := q.dev.device.MapBuffer(q.readback, 0, timestampBytes)
	if err != nil {
		render.Logger().Warn("wgpu: map timestamps", "err", err)
		return 0, false
	}
	data := unsafe.Slice((*byte)(m.Ptr), timestampBytes)
	t0 := binary.LittleEndian.Uint64(data[0:8])
	t1 := binary.LittleEndian.Uint64(data[8:16])
	if err := q.dev.device.UnmapBuffer(q.readback); err != nil {
		render.Logger().Warn("wgpu: unmap timestamps", "err", err)
	}
	if t1 < t0 {
		return 0, false
	}
	ns := float64(t1-t0) * float64(q.dev.period)
	return time.Duration(ns), true
}

// timestampWrites returns the timestamp writes for the next pass of the
// active query, or nil.
func (d *Device) timestampWrites() *hal.RenderPassTimestampWrites {
	q := d.active
	if q == nil || q.set == nil {
		return nil
	}
	end := uint32(1)
	w := &hal.RenderPassTimestampWrites{QuerySet: q.set, EndOfPassWriteIndex: &end}
	if !q.wrote {
		begin := uint32(0)
		w.BeginningOfPassWriteIndex = &begin
		q.wrote = true
	}
	return w
}

func (q *timerQuery) Release() {
	if q.dev.active == q {
		q.dev.active = nil
	}
	q.state = queryIdle
	if q.dev.closed {
		q.destroy()
		return
	}
	q.dev.retire(q.destroy)
}

func (q *timerQuery) destroy() {
	if q.readback != nil {
		q.dev.device.DestroyBuffer(q.readback)
		q.readback = nil
	}
	if q.resolve != nil {
		q.dev.device.DestroyBuffer(q.resolve)
		q.resolve = nil
	}
	if q.set != nil {
		q.dev.device.DestroyQuerySet(q.set)
		q.set = nil
	}
}
