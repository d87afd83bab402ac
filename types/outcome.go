// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "errors"

// errUnspecifiedDeath stands in for a missing reason passed to [Dead], so that
// a dead Outcome never accidentally turns into an alive one.
var errUnspecifiedDeath = errors.New("dead for unspecified reasons")

// Outcome is the verdict of probing a single [Candidate]: either alive,
// carrying the [ValidatedProxy], or dead, carrying the reason. Outcomes are
// transient and handed over by value.
type Outcome struct {
	proxy  ValidatedProxy
	reason error
}

// Alive returns the Outcome for a successfully validated proxy.
func Alive(proxy ValidatedProxy) Outcome {
	return Outcome{proxy: proxy}
}

// Dead returns the Outcome for a failed probe, giving the reason.
func Dead(reason error) Outcome {
	if reason == nil {
		reason = errUnspecifiedDeath
	}
	return Outcome{reason: reason}
}

// IsAlive returns true if the probed candidate turned out to be usable.
func (o Outcome) IsAlive() bool { return o.reason == nil }

// Proxy returns the validated proxy of an alive Outcome; it is the zero value
// for dead Outcomes.
func (o Outcome) Proxy() ValidatedProxy { return o.proxy }

// Reason returns why the candidate is dead, or nil if it is alive.
func (o Outcome) Reason() error { return o.reason }
