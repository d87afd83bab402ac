// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siemens/proxyhunter/types"

	"github.com/PuerkitoBio/goquery"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("discovery", func() {

	DescribeTable("extracts candidates from text",
		func(text string, expected ...types.Candidate) {
			found := FromText(text)
			if len(expected) == 0 {
				Expect(found).To(BeEmpty())
				return
			}
			Expect(found).To(HaveExactElements(expected))
		},
		Entry("nothing", "no proxies here, only 1.2.3.4 and :80"),
		Entry("one per line", "1.2.3.4:8080\n5.6.7.8:3128\n",
			types.Candidate("1.2.3.4:8080"), types.Candidate("5.6.7.8:3128")),
		Entry("whitespace around colon", "proxy 1.2.3.4 : 80, ok",
			types.Candidate("1.2.3.4:80")),
		Entry("leading zeros", "010.001.002.003:0080",
			types.Candidate("10.1.2.3:80")),
		Entry("duplicates kept", "1.2.3.4:80 1.2.3.4:80",
			types.Candidate("1.2.3.4:80"), types.Candidate("1.2.3.4:80")),
		Entry("invalid octet", "1.2.3.400:80 9.9.9.9:99",
			types.Candidate("9.9.9.9:99")),
		Entry("invalid port", "1.2.3.4:0 1.2.3.4:99999 1.2.3.4:65535",
			types.Candidate("1.2.3.4:65535")),
	)

	It("reads files, skipping unreadable ones", func(ctx context.Context) {
		dir := GinkgoT().TempDir()
		a := filepath.Join(dir, "a.txt")
		b := filepath.Join(dir, "b.txt")
		Expect(os.WriteFile(a, []byte("1.2.3.4:8080\nfoo\n"), 0o644)).To(Succeed())
		Expect(os.WriteFile(b, []byte("5.6.7.8:3128 1.2.3.4:8080"), 0o644)).To(Succeed())

		d := New()
		Expect(d.Files([]string{a, filepath.Join(dir, "missing.txt"), b})).To(HaveExactElements(
			types.Candidate("1.2.3.4:8080"),
			types.Candidate("5.6.7.8:3128"),
			types.Candidate("1.2.3.4:8080"),
		))
		Expect(d.Collect(ctx, []string{b})).To(HaveLen(2))
	})

	It("reports when there are no candidates", func(ctx context.Context) {
		dir := GinkgoT().TempDir()
		empty := filepath.Join(dir, "empty.txt")
		Expect(os.WriteFile(empty, []byte("nothing to see here"), 0o644)).To(Succeed())
		Expect(New().Collect(ctx, []string{empty})).Error().To(MatchError(ErrNoCandidates))
	})

	DescribeTable("finds proxy list links",
		func(href string, expected string) {
			base := Successful(url.Parse("http://search.example/search?q=foo"))
			Expect(listLink(href, base)).To(Equal(expected))
		},
		Entry("redirect link", "/url?q=http://lists.example/proxies.txt&sa=U",
			"http://lists.example/proxies.txt"),
		Entry("redirect to cache", "/url?q=http://webcache.example/proxies.txt&sa=U", ""),
		Entry("redirect to FTP", "/url?q=ftp://lists.example/proxies.txt", ""),
		Entry("scheme-less www", "www.lists.example/proxies.TXT", "http://www.lists.example/proxies.TXT"),
		Entry("direct link", "https://lists.example/a/b.txt", "https://lists.example/a/b.txt"),
		Entry("relative link", "/lists/c.txt", "http://search.example/lists/c.txt"),
		Entry("not a text file", "/url?q=http://lists.example/index.html", ""),
		Entry("empty", "", ""),
	)

	It("crawls search results for proxy lists", func(ctx context.Context) {
		var searches atomic.Int32
		var mu sync.Mutex
		var starts []string
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			searches.Add(1)
			mu.Lock()
			starts = append(starts, r.URL.Query().Get("start"))
			mu.Unlock()
			fmt.Fprintf(w, `<html><body><div id="ires">
<a href="/url?q=%[1]s/lists/one.txt&amp;sa=U">one</a>
<a href="%[1]s/lists/two.txt">two</a>
<a href="/url?q=%[1]s/lists/one.txt&amp;sa=U">one again</a>
<a href="/url?q=ftp://%[2]s/lists/three.txt">ftp</a>
<a href="/lists/missing.txt">missing</a>
<a href="/about">about</a>
</div></body></html>`, srv.URL, strings.TrimPrefix(srv.URL, "http://"))
		})
		mux.HandleFunc("/lists/one.txt", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "1.2.3.4:8080\n5.6.7.8 : 3128\n")
		})
		mux.HandleFunc("/lists/two.txt", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "9.8.7.6:80")
		})

		d := New(
			WithSearchURL(srv.URL+"/search?q=proxies&start={start}"),
			WithPages(2),
			WithTimeout(2*time.Second))
		Expect(d.Collect(ctx, nil)).To(HaveExactElements(
			types.Candidate("1.2.3.4:8080"),
			types.Candidate("5.6.7.8:3128"),
			types.Candidate("9.8.7.6:80"),
		))
		Expect(searches.Load()).To(Equal(int32(2)))
		mu.Lock()
		defer mu.Unlock()
		Expect(starts).To(HaveExactElements("0", "10"))
	})

	It("identifies itself with the configured user agent", func(ctx context.Context) {
		var mu sync.Mutex
		agents := map[string]string{}
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()
		record := func(r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			agents[r.URL.Path] = r.UserAgent()
		}
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			fmt.Fprintf(w, `<a href="/url?q=%s/list.txt&amp;sa=U">list</a>`, srv.URL)
		})
		mux.HandleFunc("/list.txt", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			fmt.Fprint(w, "1.2.3.4:8080")
		})

		d := New(
			WithSearchURL(srv.URL+"/search?start={start}"),
			WithUserAgent("proxyhunter-test/1.0"))
		Expect(d.Collect(ctx, nil)).To(HaveExactElements(types.Candidate("1.2.3.4:8080")))
		mu.Lock()
		defer mu.Unlock()
		Expect(agents).To(Equal(map[string]string{
			"/search":   "proxyhunter-test/1.0",
			"/list.txt": "proxyhunter-test/1.0",
		}))
	})

	It("reports when the web turns up nothing", func(ctx context.Context) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		d := New(WithSearchURL(srv.URL + "/search?start={start}"))
		Expect(d.Collect(ctx, nil)).Error().To(MatchError(ErrNoCandidates))
	})

	It("extracts list links from documents", func() {
		doc := Successful(goquery.NewDocumentFromReader(strings.NewReader(
			`<a href="a.txt">a</a><a href="b.html">b</a><a href="a.txt">a</a>`)))
		base := Successful(url.Parse("http://lists.example/dir/"))
		Expect(ListLinks(doc, base)).To(HaveExactElements("http://lists.example/dir/a.txt"))
	})

})
