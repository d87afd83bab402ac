// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"sync/atomic"
)

// Progress is a single progress report of a validation run.
type Progress struct {
	Completed int // candidates probed to completion so far.
	Total     int // number of distinct candidates in this run.
	Good      int // number of confirmed-good proxies so far.
}

// Percent returns the completion percentage in the range 0..100. An empty
// run counts as complete.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	return float64(p.Completed) * 100 / float64(p.Total)
}

// String returns a textual representation of the progress.
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d probed, %d good", p.Completed, p.Total, p.Good)
}

// Sink receives progress reports. Reports are delivered from a single
// goroutine, one after another, and with monotonically increasing Completed
// and Good counts. Update must not block for long, as this would stall the
// accounting of probe results.
type Sink interface {
	Update(p Progress)
}

// SinkFunc adapts an ordinary function to the [Sink] interface.
type SinkFunc func(p Progress)

// Update calls f(p).
func (f SinkFunc) Update(p Progress) { f(p) }

// Discard is a [Sink] ignoring all progress reports.
var Discard Sink = SinkFunc(func(Progress) {})

// Multi returns a [Sink] forwarding progress reports to all specified sinks,
// in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(p Progress) {
		for _, sink := range sinks {
			sink.Update(p)
		}
	})
}

// Tracker is a [Sink] that remembers only the most recent progress report,
// for renderers that poll at their own cadence. Reading and updating is
// lock-free.
type Tracker struct {
	latest atomic.Pointer[Progress]
}

var _ Sink = (*Tracker)(nil)

// NewTracker returns a new Tracker, with an initial zero progress.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update stores the specified progress as the most recent one.
func (t *Tracker) Update(p Progress) {
	t.latest.Store(&p)
}

// Latest returns the most recent progress report, or the zero Progress if
// there hasn't been any report yet.
func (t *Tracker) Latest() Progress {
	if p := t.latest.Load(); p != nil {
		return *p
	}
	return Progress{}
}
