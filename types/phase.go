// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Phase indicates the lifecycle phase of a validation run.
type Phase int

// The phases of a validation run, in the order they are passed through.
// Cancelling is optional and only entered on interruption.
const (
	Idle       Phase = iota // constructed, but not yet started.
	Filling                 // loading de-duplicated candidates into the queue.
	Draining                // workers are probing candidates.
	Cancelling              // interrupted: no new dispatch, in-flight probes finishing.
	Done                    // all workers have exited; results are final.
)

// String returns the clear-text representation of a Phase value.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Filling:
		return "filling"
	case Draining:
		return "draining"
	case Cancelling:
		return "cancelling"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// IsActive returns true while a run is filling or draining its queue, or
// waiting for in-flight probes after a cancellation.
func (p Phase) IsActive() bool {
	switch p {
	case Filling, Draining, Cancelling:
		return true
	default:
		return false
	}
}
