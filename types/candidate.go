// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedCandidate is returned (wrapped) by [ParseCandidate] for strings
// that are not of the form “IPv4:port”.
var ErrMalformedCandidate = errors.New("malformed candidate")

// Candidate is an unvalidated proxy endpoint in canonical “a.b.c.d:port”
// form. Candidates are immutable; two Candidates referring to the same
// endpoint always compare equal, so they can be used directly as map keys for
// de-duplication.
type Candidate string

// ParseCandidate returns the canonical [Candidate] for the specified
// “host:port” string. Discovery sources are noisy, so any whitespace anywhere
// in s is dropped first, as are leading zeros in the octets and the port
// number. The host must be an IPv4 dotted quad and the port in the range
// 1..65535.
func ParseCandidate(s string) (Candidate, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	host, portstr, ok := strings.Cut(clean, ":")
	if !ok {
		return "", fmt.Errorf("%w: %q lacks a port", ErrMalformedCandidate, s)
	}
	port, err := strconv.ParseUint(portstr, 10, 16)
	if err != nil || port == 0 {
		return "", fmt.Errorf("%w: %q has an invalid port", ErrMalformedCandidate, s)
	}
	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("%w: %q is not an IPv4 address", ErrMalformedCandidate, s)
	}
	var b strings.Builder
	for idx, octet := range octets {
		val, err := strconv.ParseUint(octet, 10, 8)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not an IPv4 address", ErrMalformedCandidate, s)
		}
		if idx > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(val, 10))
	}
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(port, 10))
	return Candidate(b.String()), nil
}

// String returns the candidate in “a.b.c.d:port” form.
func (c Candidate) String() string { return string(c) }

// Host returns the IPv4 address part of the candidate.
func (c Candidate) Host() string {
	host, _, _ := strings.Cut(string(c), ":")
	return host
}

// Port returns the port number of the candidate, or 0 for a zero Candidate.
func (c Candidate) Port() int {
	_, portstr, _ := strings.Cut(string(c), ":")
	port, _ := strconv.Atoi(portstr)
	return port
}
