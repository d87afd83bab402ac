// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package collect

import (
	"fmt"
	"sync"
	"time"

	"github.com/siemens/proxyhunter/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("result collector", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(2 * time.Second).WithPolling(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("starts out empty", func() {
		c := New()
		Expect(c.Count()).To(BeZero())
		Expect(c.Snapshot()).To(BeEmpty())
	})

	It("sorts snapshots by origin, stable", func() {
		c := New()
		c.Append(types.ValidatedProxy{Server: "1.1.1.1:80", Origin: "France"})
		c.Append(types.ValidatedProxy{Server: "2.2.2.2:80", Origin: "Unknown"})
		c.Append(types.ValidatedProxy{Server: "3.3.3.3:80", Origin: "France"})
		Expect(c.Snapshot()).To(Equal([]types.ValidatedProxy{
			{Server: "1.1.1.1:80", Origin: "France"},
			{Server: "3.3.3.3:80", Origin: "France"},
			{Server: "2.2.2.2:80", Origin: "Unknown"},
		}))
	})

	It("keeps appending order for proxies without origin", func() {
		c := New()
		for _, server := range []types.Candidate{"9.9.9.9:1", "1.1.1.1:1", "5.5.5.5:1"} {
			c.Append(types.ValidatedProxy{Server: server})
		}
		Expect(c.Snapshot()).To(HaveExactElements(
			HaveField("Server", types.Candidate("9.9.9.9:1")),
			HaveField("Server", types.Candidate("1.1.1.1:1")),
			HaveField("Server", types.Candidate("5.5.5.5:1")),
		))
	})

	It("hands out snapshots it doesn't share", func() {
		c := New()
		c.Append(types.ValidatedProxy{Server: "1.1.1.1:80"})
		snap := c.Snapshot()
		snap[0].Origin = "Atlantis"
		Expect(c.Snapshot()[0].Origin).To(BeEmpty())
	})

	It("neither loses nor duplicates concurrent appends", func() {
		const appenders = 16
		const perAppender = 250
		c := New()
		var wg sync.WaitGroup
		for a := 0; a < appenders; a++ {
			wg.Add(1)
			go func(a int) {
				defer wg.Done()
				for i := 0; i < perAppender; i++ {
					c.Append(types.ValidatedProxy{
						Server: types.Candidate(fmt.Sprintf("10.0.%d.%d:80", a, i%256)),
						Origin: fmt.Sprintf("%d", i),
					})
				}
			}(a)
		}
		// count observers must only ever see growing counts.
		done := make(chan struct{})
		go func() {
			defer close(done)
			last := 0
			for last < appenders*perAppender {
				count := c.Count()
				if count < last {
					panic("count went backwards")
				}
				last = count
			}
		}()
		wg.Wait()
		Eventually(done).Should(BeClosed())
		snap := c.Snapshot()
		Expect(snap).To(HaveLen(appenders * perAppender))
		seen := map[types.ValidatedProxy]struct{}{}
		for _, p := range snap {
			seen[p] = struct{}{}
		}
		Expect(seen).To(HaveLen(appenders * perAppender))
	})

})
