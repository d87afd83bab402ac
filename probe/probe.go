// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siemens/proxyhunter/types"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
	"golang.org/x/net/proxy"
)

// Default reference endpoints.
const (
	DefaultLivenessURL    = "http://httpbin.org/ip"
	DefaultGeolocationURL = "http://ip-api.com/json/?fields=country,status"
)

// Proxy schemes supported for talking to candidates.
const (
	SchemeHTTP   = "http"
	SchemeSOCKS5 = "socks5"
)

// maxBodySize limits how much of a reference endpoint's response is read.
const maxBodySize = 64 * 1024

var (
	// ErrMalformedResponse indicates that the reference endpoint's response
	// couldn't be parsed or lacked mandatory fields.
	ErrMalformedResponse = errors.New("malformed reference response")
	// ErrStatusFail indicates that the geolocation service reported a
	// failure status.
	ErrStatusFail = errors.New("reference service reported failure")
	// ErrHTTPStatus indicates a non-2xx HTTP status from the reference
	// endpoint (or the proxy in between).
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrTimeout indicates a non-positive probe timeout.
	ErrTimeout = errors.New("probe timeout must be positive")
)

// OriginResolver resolves the origin (country name) of an exit IP address
// without any help from the proxy.
type OriginResolver interface {
	Origin(ip string) (string, error)
}

// Prober checks whether candidates are usable proxies by sending a request
// through them to a fixed reference endpoint. Depending on its mode, a Prober
// either only checks liveness or additionally geolocates the proxy's exit.
//
// A Prober is safe for concurrent use: each probe uses its own transport and
// connection, and nothing is shared between probes.
type Prober struct {
	geolocate   bool               // use the geolocation reference endpoint.
	scheme      string             // how to talk to candidates.
	livenessURL string             // reference endpoint for liveness-only checks.
	geoURL      string             // reference endpoint for geolocation checks.
	netns       relations.Relation // network namespace to dial from, or nil.
	origins     OriginResolver     // optional offline origin lookup in liveness mode.
}

// ProberOption can be passed to New when creating new Prober objects.
type ProberOption func(*Prober)

// New returns a new [Prober], configured using the specified options. Without
// any options, it probes candidates as HTTP forward proxies in liveness-only
// mode against [DefaultLivenessURL].
//
// The prober can be configured during creation using these options:
//   - [WithGeolocation]
//   - [WithLivenessURL]
//   - [WithGeolocationURL]
//   - [WithScheme]
//   - [WithOriginResolver]
//   - [InNetworkNamespace]
func New(options ...ProberOption) *Prober {
	p := &Prober{
		scheme:      SchemeHTTP,
		livenessURL: DefaultLivenessURL,
		geoURL:      DefaultGeolocationURL,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// WithGeolocation switches between liveness-only checks (false, the default)
// and liveness plus geolocation checks (true).
func WithGeolocation(geolocate bool) ProberOption {
	return func(p *Prober) {
		p.geolocate = geolocate
	}
}

// WithLivenessURL sets the reference endpoint for liveness-only checks. The
// endpoint must answer with a JSON object carrying the client's IP address in
// either an “ip” or “origin” field.
func WithLivenessURL(u string) ProberOption {
	return func(p *Prober) {
		if u != "" {
			p.livenessURL = u
		}
	}
}

// WithGeolocationURL sets the reference endpoint for geolocation checks. The
// endpoint must answer with a JSON object carrying a “status” field and, on
// success, a “country” field.
func WithGeolocationURL(u string) ProberOption {
	return func(p *Prober) {
		if u != "" {
			p.geoURL = u
		}
	}
}

// WithScheme sets how candidates are talked to: either as HTTP forward proxies
// ([SchemeHTTP]) or as SOCKS5 proxies ([SchemeSOCKS5]). Unknown schemes panic.
func WithScheme(scheme string) ProberOption {
	switch scheme {
	case SchemeHTTP, SchemeSOCKS5:
	default:
		panic(fmt.Errorf("unsupported proxy scheme %q", scheme))
	}
	return func(p *Prober) {
		p.scheme = scheme
	}
}

// WithOriginResolver sets an offline origin resolver that is consulted in
// liveness-only mode for the exit IP address reported by the reference
// endpoint. Without a resolver, liveness-only probes leave the origin empty.
func WithOriginResolver(r OriginResolver) ProberOption {
	return func(p *Prober) {
		p.origins = r
	}
}

// InNetworkNamespace optionally makes a [Prober] connect to candidates from
// inside the network namespace referenced by the specified filesystem path
// (such as "/proc/666/ns/net"). An empty path keeps the caller's network
// namespace.
func InNetworkNamespace(netnsref string) ProberOption {
	return func(p *Prober) {
		if netnsref == "" {
			p.netns = nil
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// ReferenceURL returns the reference endpoint this Prober sends its requests
// to.
func (p *Prober) ReferenceURL() string {
	if p.geolocate {
		return p.geoURL
	}
	return p.livenessURL
}

// Probe checks the specified candidate within the specified timeout, which
// bounds the whole probe from connecting to reading the complete response.
// The returned outcome is either alive, carrying the validated proxy, or dead,
// carrying the reason; Probe never fails in any other way.
//
// Any whitespace inside the candidate is ignored.
func (p *Prober) Probe(ctx context.Context, candidate types.Candidate, timeout time.Duration) types.Outcome {
	if timeout <= 0 {
		return types.Dead(ErrTimeout)
	}
	server, err := types.ParseCandidate(string(candidate))
	if err != nil {
		return types.Dead(err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := p.client(server)
	if err != nil {
		return types.Dead(err)
	}
	defer client.CloseIdleConnections()

	body, err := fetch(ctx, client, p.ReferenceURL())
	if err != nil {
		return types.Dead(err)
	}
	var origin string
	if p.geolocate {
		origin, err = geolocation(body)
	} else {
		origin, err = p.liveness(body)
	}
	if err != nil {
		return types.Dead(err)
	}
	return types.Alive(types.ValidatedProxy{
		Server: server,
		Origin: origin,
	})
}

// client returns a new HTTP client sending its requests through the specified
// candidate.
func (p *Prober) client(server types.Candidate) (*http.Client, error) {
	dialer := &nsDialer{netns: p.netns}
	transport := &http.Transport{
		DisableKeepAlives: true,
		MaxIdleConns:      -1,
	}
	switch p.scheme {
	case SchemeSOCKS5:
		socks, err := proxy.SOCKS5("tcp", server.String(), nil, dialer)
		if err != nil {
			return nil, err
		}
		transport.DialContext = socks.(proxy.ContextDialer).DialContext
	default:
		transport.Proxy = http.ProxyURL(&url.URL{
			Scheme: "http",
			Host:   server.String(),
		})
		transport.DialContext = dialer.DialContext
	}
	return &http.Client{
		Transport: transport,
		// Never follow redirects: a proxy redirecting us to some captive
		// portal isn't a usable proxy.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// fetch GETs the specified reference URL using the given client and returns
// the response body, as long as the response status is 2xx.
func fetch(ctx context.Context, client *http.Client, refURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, refURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// livenessResponse covers the usual "what's my IP" JSON responses.
type livenessResponse struct {
	IP     string `json:"ip"`
	Origin string `json:"origin"`
}

// liveness checks a liveness reference response to be well-formed and
// returns the origin of the exit IP, if an offline resolver is available.
func (p *Prober) liveness(body []byte) (string, error) {
	var resp livenessResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	exitIP := resp.IP
	if exitIP == "" {
		exitIP = resp.Origin
	}
	// The reported IP may be a list "a, b" when there are several hops.
	exitIP, _, _ = strings.Cut(exitIP, ",")
	exitIP = strings.TrimSpace(exitIP)
	if exitIP == "" {
		return "", fmt.Errorf("%w: no IP address reported", ErrMalformedResponse)
	}
	if p.origins == nil {
		return "", nil
	}
	origin, err := p.origins.Origin(exitIP)
	if err != nil || origin == "" {
		return types.UnknownOrigin, nil
	}
	return origin, nil
}

// geolocationResponse is the JSON response from the geolocation service;
// pointers tell absent fields apart from empty ones.
type geolocationResponse struct {
	Status  *string `json:"status"`
	Country *string `json:"country"`
}

// geolocation checks a geolocation reference response to report success and
// returns the reported country.
func geolocation(body []byte) (string, error) {
	var resp geolocationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if resp.Status == nil {
		return "", fmt.Errorf("%w: no status reported", ErrMalformedResponse)
	}
	if *resp.Status == "fail" {
		return "", ErrStatusFail
	}
	if resp.Country == nil || *resp.Country == "" {
		return types.UnknownOrigin, nil
	}
	return *resp.Country, nil
}
