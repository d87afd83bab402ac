// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/siemens/proxyhunter/progress"
	"github.com/siemens/proxyhunter/types"
	"github.com/siemens/proxyhunter/verifier"
)

// barWidth is the width of the progress bar in terminal cells.
const barWidth = 30

// renderer renders the terminal display, based on the verifier's run state
// and the most recent progress passed to its Render method.
type renderer struct {
	w       io.Writer
	spinner *spinner
}

// newRenderer returns a renderer rendering to the specified io.Writer.
func newRenderer(w io.Writer, spinnerInterval time.Duration) *renderer {
	return &renderer{
		w:       w,
		spinner: newSpinner(spinnerInterval),
	}
}

// Render the given run state and progress. The counts are taken from the
// progress, as only these are guaranteed to never go backwards between
// renderings; the state tells the phase.
func (r *renderer) Render(state types.RunState, p progress.Progress) {
	switch state.Phase {
	case types.Idle:
		fmt.Fprintf(r.w, "%ssearching for proxy candidates...\n", r.spinner.Spinner())
		return
	case types.Filling:
		fmt.Fprintf(r.w, "%squeueing %d proxy candidates...\n", r.spinner.Spinner(), state.Total)
		return
	}
	if p.Total == 0 {
		p.Total = state.Total
	}
	lead := "  "
	if state.Phase.IsActive() {
		lead = r.spinner.Spinner()
	}
	fmt.Fprintf(r.w, "%s%s %s/%d (%3.0f%%), %s good",
		lead,
		probingStyle.Styled(bar(p.Percent())),
		countStyle.Styled(fmt.Sprint(p.Completed)),
		p.Total,
		p.Percent(),
		goodStyle.Styled(fmt.Sprint(p.Good)))
	if state.Phase == types.Cancelling {
		fmt.Fprint(r.w, interruptedStyle.Styled(" interrupted, waiting for probes in flight..."))
	}
	fmt.Fprintln(r.w)
}

// bar returns a progress bar for the specified percentage.
func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// summarize the verification report: what has been probed, what was found to
// be working, and how long it all took.
func summarize(w io.Writer, report verifier.Report) {
	status := goodStyle.Styled("✔ completed")
	if report.Cancelled {
		status = interruptedStyle.Styled("× interrupted")
	}
	fmt.Fprintf(w, "%s: probed %s of %d proxies (%d duplicates dropped), %s good, in %s\n",
		status,
		countStyle.Styled(fmt.Sprint(report.Completed)),
		report.Total,
		report.Duplicates,
		goodStyle.Styled(fmt.Sprint(len(report.Proxies))),
		report.Elapsed.Round(time.Millisecond))
}
