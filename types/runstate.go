// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// RunState is a point-in-time snapshot of a validation run. Completed and
// Remaining always add up to Total.
type RunState struct {
	Phase     Phase `json:"phase"`
	Total     int   `json:"total"`     // number of distinct candidates, fixed at start.
	Remaining int   `json:"remaining"` // candidates not yet probed to completion.
	Completed int   `json:"completed"` // candidates probed to completion, dead or alive.
	Good      int   `json:"good"`      // confirmed-good proxies so far.
	Cancelled bool  `json:"cancelled"` // run got interrupted; never cleared once set.
}

// String returns a compact textual representation, mainly for logging.
func (s RunState) String() string {
	cancelled := ""
	if s.Cancelled {
		cancelled = ", cancelled"
	}
	return fmt.Sprintf("%s: %d/%d completed, %d good%s", s.Phase, s.Completed, s.Total, s.Good, cancelled)
}
