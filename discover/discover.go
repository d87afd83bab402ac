// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package discover

import (
	"context"
	"errors"
	"os"
	"regexp"
	"time"

	"github.com/siemens/proxyhunter/types"

	"github.com/rs/zerolog"
)

// ErrNoCandidates indicates that discovery didn't turn up any candidates at
// all.
var ErrNoCandidates = errors.New("no proxies found")

// DefaultSearchURL searches for text files listing proxies on the usual
// proxy ports. The “{start}” placeholder gets replaced by the result offset
// of the page to fetch.
const DefaultSearchURL = `https://www.google.com/search?q=%22%3A8080%22+%22%3A3128%22+%22%3A80%22+filetype%3Atxt&start={start}`

// DefaultUserAgent is sent when crawling search results and proxy lists.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// candidateRe matches dotted-quad IPv4 addresses with ports, allowing for
// whitespace around the colon.
var candidateRe = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\s*:\s*\d{1,5}`)

// Discoverer discovers candidates from local files or by crawling web search
// results for proxy lists.
type Discoverer struct {
	log       zerolog.Logger
	timeout   time.Duration
	searchURL string
	pages     int
	userAgent string
}

// DiscovererOption can be passed to New when creating new Discoverer objects.
type DiscovererOption func(*Discoverer)

// New returns a new [Discoverer], configured using the specified options.
func New(opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		log:       zerolog.Nop(),
		timeout:   2 * time.Second,
		searchURL: DefaultSearchURL,
		pages:     1,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithLogger sets the logger for diagnostic messages.
func WithLogger(log zerolog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		d.log = log
	}
}

// WithTimeout sets the timeout for fetching each single web page.
func WithTimeout(timeout time.Duration) DiscovererOption {
	return func(d *Discoverer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithSearchURL sets the search URL template; see also [DefaultSearchURL].
func WithSearchURL(u string) DiscovererOption {
	return func(d *Discoverer) {
		if u != "" {
			d.searchURL = u
		}
	}
}

// WithPages sets the number of search result pages to crawl.
func WithPages(pages int) DiscovererOption {
	return func(d *Discoverer) {
		if pages >= 0 {
			d.pages = pages
		}
	}
}

// WithUserAgent sets the user agent for web requests.
func WithUserAgent(ua string) DiscovererOption {
	return func(d *Discoverer) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// Collect returns the candidates from the specified files or, if no files
// are specified, from crawling web search results. The candidates are
// returned in order of discovery, including any duplicates. Collect returns
// [ErrNoCandidates] if nothing was found.
func (d *Discoverer) Collect(ctx context.Context, files []string) ([]types.Candidate, error) {
	var candidates []types.Candidate
	if len(files) > 0 {
		candidates = d.Files(files)
	} else {
		candidates = d.Web(ctx)
	}
	if err := ctx.Err(); err != nil {
		return candidates, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	return candidates, nil
}

// Files returns the candidates found in the specified files. Files that
// cannot be read are logged and skipped.
func (d *Discoverer) Files(paths []string) []types.Candidate {
	var candidates []types.Candidate
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			d.log.Warn().Err(err).Str("file", path).Msg("couldn't read proxy list")
			continue
		}
		found := FromText(string(text))
		d.log.Debug().Str("file", path).Int("count", len(found)).Msg("read proxy list")
		candidates = append(candidates, found...)
	}
	return candidates
}

// FromText returns the candidates found in the specified text, in order of
// appearance. Matches that aren't valid candidates, such as 1.2.3.400:80, are
// dropped.
func FromText(text string) []types.Candidate {
	var candidates []types.Candidate
	for _, match := range candidateRe.FindAllString(text, -1) {
		candidate, err := types.ParseCandidate(match)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
