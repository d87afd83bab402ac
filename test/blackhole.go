// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"sync"

	"github.com/siemens/proxyhunter/types"
)

// Blackhole accepts TCP connections on a loopback port, but never sends
// anything back.
type Blackhole struct {
	ln    net.Listener
	mu    sync.Mutex
	conns []net.Conn
	done  chan struct{}
}

// NewBlackhole returns a new blackhole listening on a loopback port. Close it
// when done.
func NewBlackhole() (*Blackhole, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	b := &Blackhole{ln: ln, done: make(chan struct{})}
	go b.serve()
	return b, nil
}

func (b *Blackhole) serve() {
	defer close(b.done)
	for {
		conn, err := b.ln.Accept()
		if err != nil {
			return
		}
		b.mu.Lock()
		b.conns = append(b.conns, conn)
		b.mu.Unlock()
	}
}

// Candidate returns the blackhole's address as a candidate.
func (b *Blackhole) Candidate() types.Candidate {
	return CandidateOf(b.ln.Addr())
}

// Close stops listening and closes all accepted connections.
func (b *Blackhole) Close() {
	_ = b.ln.Close()
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, conn := range b.conns {
		_ = conn.Close()
	}
	b.conns = nil
}
