// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package discover

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/siemens/proxyhunter/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// Web crawls the configured number of web search result pages for links to
// proxy list text files, and then returns the candidates found in these
// lists. Pages and lists that cannot be fetched are logged and skipped.
func (d *Discoverer) Web(ctx context.Context) []types.Candidate {
	search := colly.NewCollector(colly.UserAgent(d.userAgent))
	search.SetRequestTimeout(d.timeout)
	lists := search.Clone()

	var candidates []types.Candidate
	lists.OnResponse(func(r *colly.Response) {
		found := FromText(string(r.Body))
		d.log.Debug().Str("url", r.Request.URL.String()).Int("count", len(found)).Msg("fetched proxy list")
		candidates = append(candidates, found...)
	})
	lists.OnError(func(r *colly.Response, err error) {
		d.log.Debug().Err(err).Int("status_code", r.StatusCode).Str("url", r.Request.URL.String()).
			Msg("couldn't fetch proxy list")
	})

	search.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			d.log.Warn().Err(err).Str("url", r.Request.URL.String()).Msg("couldn't parse search results")
			return
		}
		for _, link := range ListLinks(doc, r.Request.URL) {
			if ctx.Err() != nil {
				return
			}
			_ = lists.Visit(link)
		}
	})
	search.OnError(func(r *colly.Response, err error) {
		d.log.Warn().Err(err).Int("status_code", r.StatusCode).Str("url", r.Request.URL.String()).
			Msg("couldn't fetch search results")
	})

	for page := 0; page < d.pages; page++ {
		if ctx.Err() != nil {
			break
		}
		pageURL := strings.ReplaceAll(d.searchURL, "{start}", strconv.Itoa(page*10))
		d.log.Debug().Str("url", pageURL).Int("page", page+1).Msg("searching for proxy lists")
		_ = search.Visit(pageURL)
	}
	search.Wait()
	lists.Wait()
	return candidates
}

// ListLinks returns the absolute URLs of the text files linked to from the
// specified search results document. It understands search engine redirect
// links of the form “/url?q=<URL>&...”, and skips cached copies as well as
// FTP links.
func ListLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := listLink(href, base)
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

// listLink returns the absolute URL of a proxy list text file for the
// specified link, or "" if it's not a link to a proxy list.
func listLink(href string, base *url.URL) string {
	if strings.HasPrefix(href, "/url?") {
		redir, err := url.Parse(href)
		if err != nil {
			return ""
		}
		href = redir.Query().Get("q")
	}
	if href == "" || strings.Contains(href, "webcache") {
		return ""
	}
	if strings.HasPrefix(href, "www.") {
		href = "http://" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".txt") {
		return ""
	}
	return u.String()
}
