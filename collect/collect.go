// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package collect

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/siemens/proxyhunter/types"
)

// Collector accumulates confirmed-good proxies. It is append-only and safe for
// concurrent use.
type Collector struct {
	mu      sync.Mutex
	proxies []types.ValidatedProxy // in order of appending.
	count   atomic.Int64           // mirrors len(proxies) for lock-free readers.
}

// New returns a new and empty Collector.
func New() *Collector {
	return &Collector{}
}

// Append adds a validated proxy to the collection.
func (c *Collector) Append(proxy types.ValidatedProxy) {
	c.mu.Lock()
	c.proxies = append(c.proxies, proxy)
	c.count.Store(int64(len(c.proxies)))
	c.mu.Unlock()
}

// Count returns the number of proxies collected so far. It never blocks, not
// even while another goroutine is appending.
func (c *Collector) Count() int {
	return int(c.count.Load())
}

// Snapshot returns a copy of the collected proxies, sorted by origin in
// ascending order. Proxies with the same origin keep the order in which they
// were appended. Proxies without an origin thus sort first.
func (c *Collector) Snapshot() []types.ValidatedProxy {
	c.mu.Lock()
	snap := make([]types.ValidatedProxy, len(c.proxies))
	copy(snap, c.proxies)
	c.mu.Unlock()
	sort.SliceStable(snap, func(a, b int) bool {
		return snap[a].Origin < snap[b].Origin
	})
	return snap
}
