// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// UnknownOrigin is the origin reported for proxies whose geolocation lookup
// succeeded, but didn't name a country.
const UnknownOrigin = "Unknown"

// ValidatedProxy is a [Candidate] that has been confirmed to be a usable proxy,
// optionally annotated with its geographic origin (country name). An empty
// Origin means that the origin wasn't resolved at all.
//
// ValidatedProxy is a plain value type and thus never shared in a mutable
// way: whoever receives a copy owns it.
type ValidatedProxy struct {
	Server Candidate `json:"server"`
	Origin string    `json:"origin,omitempty"`
}

// HasOrigin returns true if the proxy carries origin information.
func (p ValidatedProxy) HasOrigin() bool { return p.Origin != "" }
