// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siemens/proxyhunter/types"
)

// FakeProxy is an HTTP "forward proxy" that answers all requests itself using
// its reference handler. It records the request targets it was asked for.
type FakeProxy struct {
	server   *httptest.Server
	handler  http.Handler
	delay    time.Duration
	release  <-chan struct{}
	requests atomic.Int64
	mu       sync.Mutex
	targets  []string
}

// FakeProxyOption can be passed to NewFakeProxy.
type FakeProxyOption func(*FakeProxy)

// WithDelay delays all answers by the specified duration, unless the client
// goes away earlier.
func WithDelay(d time.Duration) FakeProxyOption {
	return func(f *FakeProxy) {
		f.delay = d
	}
}

// WithRelease holds back all answers until the specified channel gets closed
// or the client goes away.
func WithRelease(ch <-chan struct{}) FakeProxyOption {
	return func(f *FakeProxy) {
		f.release = ch
	}
}

// NewFakeProxy starts and returns a new fake HTTP forward proxy answering
// using the specified reference handler. Close it when done.
func NewFakeProxy(reference http.Handler, opts ...FakeProxyOption) *FakeProxy {
	f := &FakeProxy{handler: reference}
	for _, opt := range opts {
		opt(f)
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	return f
}

func (f *FakeProxy) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.mu.Lock()
	f.targets = append(f.targets, r.RequestURI)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-r.Context().Done():
			return
		}
	}
	f.handler.ServeHTTP(w, r)
}

// Candidate returns this fake proxy's address as a candidate.
func (f *FakeProxy) Candidate() types.Candidate {
	return CandidateOf(f.server.Listener.Addr())
}

// Requests returns the number of requests received so far.
func (f *FakeProxy) Requests() int64 { return f.requests.Load() }

// Targets returns the request targets received so far; when correctly used
// as a forward proxy, these are absolute URLs.
func (f *FakeProxy) Targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.targets...)
}

// Close shuts down this fake proxy, blocking until all outstanding requests
// have completed.
func (f *FakeProxy) Close() {
	f.server.CloseClientConnections()
	f.server.Close()
}

// CandidateOf returns the candidate for the specified network address.
func CandidateOf(addr net.Addr) types.Candidate {
	return types.Candidate(addr.String())
}
