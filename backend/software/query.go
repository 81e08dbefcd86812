// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "time"

type queryState uint8

const (
	queryIdle queryState = iota
	queryRunning
	queryPending
	queryReady
)

// timerQuery measures wall time. The result is withheld for one poll after
// End so callers exercise the same not-yet-available path as on a GPU.
type timerQuery struct {
	state   queryState
	start   time.Time
	elapsed time.Duration
}

func (q *timerQuery) Begin() {
	q.state = queryRunning
	q.start = time.Now()
}

func (q *timerQuery) End() {
	if q.state != queryRunning {
		return
	}
	q.elapsed = time.Since(q.start)
	q.state = queryPending
}

func (q *timerQuery) Result() (time.Duration, bool) {
	switch q.state {
	case queryPending:
		q.state = queryReady
		return 0, false
	case queryReady:
		return q.elapsed, true
	}
	return 0, false
}

func (q *timerQuery) Release() { q.state = queryIdle }
