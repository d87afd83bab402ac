// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/siemens/proxyhunter/types"
)

// SOCKS5 protocol constants, see RFC 1928.
const (
	socks5Version    = 0x05
	socks5NoAuth     = 0x00
	socks5Connect    = 0x01
	socks5IPv4       = 0x01
	socks5DomainName = 0x03
	socks5IPv6       = 0x04

	socks5Succeeded           = 0x00
	socks5CommandNotSupported = 0x07
)

// SOCKS5Proxy is a minimal no-auth SOCKS5 proxy that accepts CONNECT requests
// to any destination, but then serves the tunneled HTTP requests itself using
// its reference handler.
type SOCKS5Proxy struct {
	ln      net.Listener
	tunnels *connListener
	server  *http.Server
	wg      sync.WaitGroup
	mu      sync.Mutex
	targets []string
	conns   []net.Conn
}

// NewSOCKS5Proxy starts and returns a new SOCKS5 proxy serving the tunneled
// HTTP requests using the specified reference handler. Close it when done.
func NewSOCKS5Proxy(reference http.Handler) (*SOCKS5Proxy, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &SOCKS5Proxy{
		ln:      ln,
		tunnels: newConnListener(ln.Addr()),
		server:  &http.Server{Handler: reference},
	}
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		_ = s.server.Serve(s.tunnels)
	}()
	go func() {
		defer s.wg.Done()
		s.serve()
	}()
	return s, nil
}

// Candidate returns the SOCKS5 proxy's address as a candidate.
func (s *SOCKS5Proxy) Candidate() types.Candidate {
	return CandidateOf(s.ln.Addr())
}

// Targets returns the CONNECT destinations requested so far.
func (s *SOCKS5Proxy) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.targets...)
}

// Close shuts down the SOCKS5 proxy, closing all tunnels.
func (s *SOCKS5Proxy) Close() {
	_ = s.ln.Close()
	_ = s.server.Close()
	s.mu.Lock()
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *SOCKS5Proxy) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			target, err := s.handshake(conn)
			if err != nil {
				_ = conn.Close()
				return
			}
			s.mu.Lock()
			s.targets = append(s.targets, target)
			s.mu.Unlock()
			if !s.tunnels.push(conn) {
				_ = conn.Close()
			}
		}()
	}
}

// handshake runs the server side of a SOCKS5 no-auth CONNECT handshake,
// returning the requested destination.
func (s *SOCKS5Proxy) handshake(conn net.Conn) (string, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		return "", err
	}
	if hdr[0] != socks5Version {
		return "", errors.New("unsupported SOCKS version")
	}
	methods := make([]byte, hdr[1])
	if _, err := io.ReadFull(conn, methods); err != nil {
		return "", err
	}
	if _, err := conn.Write([]byte{socks5Version, socks5NoAuth}); err != nil {
		return "", err
	}

	var req [4]byte
	if _, err := io.ReadFull(conn, req[:]); err != nil {
		return "", err
	}
	var host string
	switch req[3] {
	case socks5IPv4, socks5IPv6:
		size := net.IPv4len
		if req[3] == socks5IPv6 {
			size = net.IPv6len
		}
		ip := make(net.IP, size)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return "", err
		}
		host = ip.String()
	case socks5DomainName:
		var l [1]byte
		if _, err := io.ReadFull(conn, l[:]); err != nil {
			return "", err
		}
		name := make([]byte, l[0])
		if _, err := io.ReadFull(conn, name); err != nil {
			return "", err
		}
		host = string(name)
	default:
		return "", errors.New("unsupported SOCKS address type")
	}
	var port [2]byte
	if _, err := io.ReadFull(conn, port[:]); err != nil {
		return "", err
	}
	reply := []byte{socks5Version, socks5Succeeded, 0x00, socks5IPv4, 0, 0, 0, 0, 0, 0}
	if req[1] != socks5Connect {
		reply[1] = socks5CommandNotSupported
		_, _ = conn.Write(reply)
		return "", errors.New("unsupported SOCKS command")
	}
	if _, err := conn.Write(reply); err != nil {
		return "", err
	}
	return net.JoinHostPort(host, strconv.Itoa(int(binary.BigEndian.Uint16(port[:])))), nil
}

// connListener hands out already established tunnel connections to an HTTP
// server.
type connListener struct {
	addr  net.Addr
	conns chan net.Conn
	done  chan struct{}
	once  sync.Once
}

func newConnListener(addr net.Addr) *connListener {
	return &connListener{
		addr:  addr,
		conns: make(chan net.Conn),
		done:  make(chan struct{}),
	}
}

func (l *connListener) push(conn net.Conn) bool {
	select {
	case l.conns <- conn:
		return true
	case <-l.done:
		return false
	}
}

func (l *connListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *connListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *connListener) Addr() net.Addr { return l.addr }
