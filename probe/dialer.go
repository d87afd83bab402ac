// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
)

// nsDialer dials TCP connections from inside a specific network namespace, or
// from the caller's network namespace if netns is nil. Sockets stay attached
// to the network namespace they were created in, so only the dialing itself
// needs to happen inside the namespace.
type nsDialer struct {
	netns  relations.Relation
	dialer net.Dialer
}

// dialResult smuggles the dial results out of ops.Execute.
type dialResult struct {
	conn net.Conn
	err  error
}

// DialContext connects to the address on the named network.
func (d *nsDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.netns == nil {
		return d.dialer.DialContext(ctx, network, address)
	}
	// lxkns' ops.Execute differentiates between a namespace switching error
	// and the under switched namespaces called function result.
	res, err := ops.Execute(func() interface{} {
		conn, err := d.dialer.DialContext(ctx, network, address)
		return dialResult{conn: conn, err: err}
	}, d.netns)
	if err != nil {
		return nil, err
	}
	dialed := res.(dialResult)
	return dialed.conn, dialed.err
}

// Dial connects to the address on the named network, without any deadline
// except for those set by the operating system.
func (d *nsDialer) Dial(network, address string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, address)
}
