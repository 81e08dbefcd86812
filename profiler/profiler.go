// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package profiler

import (
	"errors"
	"io"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/postfx/render"
)

// maxInFlight bounds the queries a counter may have waiting for results.
// When all of them are still pending, Begin skips the frame.
const maxInFlight = 4

// ErrClosed is returned by Report after Close.
var ErrClosed = errors.New("profiler: closed")

// QueryFactory creates timer queries. Every render.Device satisfies it.
type QueryFactory interface {
	NewTimerQuery() (render.TimerQuery, error)
}

type counter struct {
	open     render.TimerQuery
	inFlight []render.TimerQuery
	free     []render.TimerQuery

	ring    []float32
	cursor  int
	filled  int
	last    float32
	hasLast bool
}

func (c *counter) record(ms float32) {
	c.ring[c.cursor] = ms
	c.cursor = (c.cursor + 1) % len(c.ring)
	c.filled = min(c.filled+1, len(c.ring))
	c.last = ms
	c.hasLast = true
}

func (c *counter) release() {
	if c.open != nil {
		c.open.Release()
		c.open = nil
	}
	for _, q := range c.inFlight {
		q.Release()
	}
	for _, q := range c.free {
		q.Release()
	}
	c.inFlight, c.free = nil, nil
}

// Profiler collects named GPU timings. It is not safe for concurrent use;
// call it from the render goroutine.
type Profiler struct {
	factory  QueryFactory
	history  int
	enabled  bool
	closed   bool
	counters map[string]*counter
}

var _ render.Profiler = (*Profiler)(nil)

// New returns a profiler that allocates queries from factory.
func New(factory QueryFactory, opts ...Option) *Profiler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Profiler{
		factory:  factory,
		history:  o.history,
		enabled:  !o.disabled,
		counters: make(map[string]*counter),
	}
}

// Begin starts timing name, registering the counter on first use.
// It is a no-op when disabled, when name is already open, or when the
// counter has maxInFlight results outstanding.
func (p *Profiler) Begin(name string) {
	if !p.enabled || p.closed {
		return
	}
	c, ok := p.counters[name]
	if !ok {
		c = &counter{ring: make([]float32, p.history)}
		p.counters[name] = c
	}
	if c.open != nil {
		return
	}
	if len(c.inFlight) >= maxInFlight {
		render.Logger().Debug("profiler: skipping sample, queries pending", "counter", name)
		return
	}

	var q render.TimerQuery
	if n := len(c.free); n > 0 {
		q = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		var err error
		q, err = p.factory.NewTimerQuery()
		if err != nil {
			render.Logger().Warn("profiler: create timer query", "counter", name, "err", err)
			return
		}
	}
	q.Begin()
	c.open = q
}

// End stops timing name. Unknown or unopened names are ignored.
func (p *Profiler) End(name string) {
	if !p.enabled || p.closed {
		return
	}
	c, ok := p.counters[name]
	if !ok || c.open == nil {
		return
	}
	c.open.End()
	c.inFlight = append(c.inFlight, c.open)
	c.open = nil
}

// Update records every result that is ready. Queries are polled oldest
// first and polling stops at the first pending one, so samples land in
// submission order. Update never waits on the GPU.
func (p *Profiler) Update() {
	if !p.enabled || p.closed {
		return
	}
	for _, c := range p.counters {
		n := 0
		for _, q := range c.inFlight {
			d, ok := q.Result()
			if !ok {
				break
			}
			c.record(float32(d) / float32(time.Millisecond))
			c.free = append(c.free, q)
			n++
		}
		c.inFlight = slices.Delete(c.inFlight, 0, n)
	}
}

// LastMs returns the most recent sample of name in milliseconds.
func (p *Profiler) LastMs(name string) (float32, bool) {
	c, ok := p.counters[name]
	if !ok || !c.hasLast {
		return 0, false
	}
	return c.last, true
}

// AvgMs returns the mean over the filled part of the history ring.
func (p *Profiler) AvgMs(name string) (float32, bool) {
	c, ok := p.counters[name]
	if !ok || c.filled == 0 {
		return 0, false
	}
	var sum float32
	for _, v := range c.ring[:c.filled] {
		sum += v
	}
	return sum / float32(c.filled), true
}

// Counters returns the registered counter names in sorted order.
func (p *Profiler) Counters() []string {
	names := make([]string, 0, len(p.counters))
	for name := range p.counters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TotalMs sums the last sample of every counter.
func (p *Profiler) TotalMs() float32 {
	var total float32
	for _, c := range p.counters {
		total += c.last
	}
	return total
}

// ResetFrame zeroes the last sample of every counter. History is kept.
func (p *Profiler) ResetFrame() {
	for _, c := range p.counters {
		c.last = 0
	}
}

// Clear drops all counters and releases their queries.
func (p *Profiler) Clear() {
	for _, c := range p.counters {
		c.release()
	}
	clear(p.counters)
}

// SetEnabled switches collection on or off. While disabled, Begin, End and
// Update do nothing; existing samples stay readable.
func (p *Profiler) SetEnabled(enabled bool) { p.enabled = enabled }

// Enabled reports whether collection is on.
func (p *Profiler) Enabled() bool { return p.enabled }

// Report writes one line per counter with the last and average times,
// followed by the total.
func (p *Profiler) Report(w io.Writer) error {
	if p.closed {
		return ErrClosed
	}
	pr := message.NewPrinter(language.English)
	for _, name := range p.Counters() {
		last, _ := p.LastMs(name)
		avg, ok := p.AvgMs(name)
		if !ok {
			if _, err := pr.Fprintf(w, "%-28s %10s\n", name, "pending"); err != nil {
				return err
			}
			continue
		}
		if _, err := pr.Fprintf(w, "%-28s %10.3f ms  avg %10.3f ms\n", name, last, avg); err != nil {
			return err
		}
	}
	_, err := pr.Fprintf(w, "%-28s %10.3f ms\n", "total", p.TotalMs())
	return err
}

// Close releases every query. The profiler ignores all calls afterwards.
func (p *Profiler) Close() {
	if p.closed {
		return
	}
	p.Clear()
	p.closed = true
}
