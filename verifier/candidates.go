// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"strings"
	"unicode"

	"github.com/siemens/proxyhunter/types"
)

// CandidateSet de-duplicates candidates while keeping the order in which they
// were first seen. Candidates are compared in their normalized form, so that
// "1.2.3.4:080" and " 1.2.3.4:80" are the same candidate. Candidates that
// cannot be normalized are compared as-is (minus any whitespace); they will be
// probed nevertheless and then turn out dead.
//
// A CandidateSet is not safe for concurrent use.
type CandidateSet struct {
	seen       map[types.Candidate]struct{}
	order      []types.Candidate
	duplicates int
}

// NewCandidateSet returns a new CandidateSet object.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{
		seen: map[types.Candidate]struct{}{},
	}
}

// Add adds the specified candidate, returning true if the candidate hasn't
// been seen before. Otherwise, it counts another duplicate and returns false.
func (s *CandidateSet) Add(candidate types.Candidate) bool {
	key, err := types.ParseCandidate(string(candidate))
	if err != nil {
		key = types.Candidate(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, string(candidate)))
	}
	if _, ok := s.seen[key]; ok {
		s.duplicates++
		return false
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// AddAll adds the specified candidates.
func (s *CandidateSet) AddAll(candidates []types.Candidate) {
	for _, candidate := range candidates {
		s.Add(candidate)
	}
}

// Len returns the number of distinct candidates.
func (s *CandidateSet) Len() int { return len(s.order) }

// Duplicates returns the number of duplicates dropped so far.
func (s *CandidateSet) Duplicates() int { return s.duplicates }

// Candidates returns the distinct candidates in order of first appearance.
func (s *CandidateSet) Candidates() []types.Candidate {
	return append([]types.Candidate(nil), s.order...)
}
