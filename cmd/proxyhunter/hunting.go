// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/siemens/proxyhunter/discover"
	"github.com/siemens/proxyhunter/geoip"
	"github.com/siemens/proxyhunter/logging"
	"github.com/siemens/proxyhunter/mobynet"
	"github.com/siemens/proxyhunter/probe"
	"github.com/siemens/proxyhunter/progress"
	"github.com/siemens/proxyhunter/store"
	"github.com/siemens/proxyhunter/verifier"

	"github.com/gosuri/uilive"
	"github.com/rs/zerolog"
)

// errNoGoodProxies signals a completed hunt that didn't find any working
// proxy.
var errNoGoodProxies = errors.New("no working proxies found")

// HuntAndReport discovers proxy candidates, either from the input files or by
// searching the web, and then probes them for good or bad, rendering live
// progress to errout. Finally, the working proxies are written to the output
// file or otherwise to out, sorted by their origins.
//
// When the context gets cancelled while probing, the hunt stops dispatching
// further probes, waits for the probes in flight, and then reports what it
// has found so far.
func HuntAndReport(ctx context.Context, s settings, out io.Writer, errout io.Writer) error {
	// Dunno what uilive's background updating mode using Start() is good
	// for? It may trigger anytime with the rendering into the buffer not yet
	// complete, thus making the terminal output very flickery. So we avoid
	// Start() and instead trigger an explicit flush to the terminal after
	// having completed the rendering. Log messages must bypass the live
	// output, as otherwise the next flush would erase them.
	term := uilive.New()
	term.Out = errout
	log := logging.New(term.Bypass(), s.Verbose)

	// Better fail early than after a lengthy hunt.
	if s.Output != "" {
		if err := store.CheckWritable(s.Output); err != nil {
			return err
		}
	}

	netnsref := s.Netns
	if s.Container != "" {
		moby, err := mobynet.Connect("")
		if err != nil {
			return fmt.Errorf("cannot connect to the Docker daemon: %w", err)
		}
		netns, err := mobynet.ContainerNetns(ctx, moby, s.Container)
		moby.Close()
		if err != nil {
			return fmt.Errorf("cannot locate container's network namespace: %w", err)
		}
		log.Debug().Str("container", netns.Container).Strs("networks", netns.Networks).
			Str("netns", netns.Ref).Msg("probing from inside container")
		netnsref = netns.Ref
	}

	proberOpts := []probe.ProberOption{
		probe.WithScheme(s.Scheme),
		probe.WithGeolocation(s.Country),
		probe.WithLivenessURL(s.LivenessURL),
		probe.WithGeolocationURL(s.GeoURL),
		probe.InNetworkNamespace(netnsref),
	}
	if s.GeoIPDB != "" {
		origins, err := geoip.Open(s.GeoIPDB)
		if err != nil {
			return err
		}
		defer origins.Close()
		proberOpts = append(proberOpts, probe.WithOriginResolver(origins))
	}
	prober := probe.New(proberOpts...)

	// Now lets put the required processing elements and their plumbing in
	// place.
	//
	//   - Discoverer producing candidates from files or web search results.
	//   - Verifier probing the candidates, collecting the working proxies.
	//   - Tracker receiving the progress updates from the Verifier.
	//
	// Rendering is done on the information collected by the Tracker.
	tracker := progress.NewTracker()
	v, err := verifier.New(s.Workers, s.Timeout, prober,
		verifier.WithProgress(progress.Multi(tracker, milestones(log))),
		verifier.WithLogger(logging.WithComponent(log, "verifier")))
	if err != nil {
		return err
	}

	// Fire off the rendering goroutine that will only stop after verifying
	// has finished. It then renders a final update and ends rendering,
	// signalling the end of its activities via renderingDone.
	verifyingDone := make(chan struct{})
	renderingDone := make(chan struct{})
	go func() {
		r := newRenderer(term, s.Spinner)
		render := func() {
			r.Render(v.State(), tracker.Latest())
			_ = term.Flush()
		}
		defer func() {
			render()
			close(renderingDone)
		}()
		render()
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				render()
			case <-verifyingDone:
				return
			}
		}
	}()

	d := discover.New(
		discover.WithLogger(logging.WithComponent(log, "discover")),
		discover.WithTimeout(s.Timeout),
		discover.WithSearchURL(s.SearchURL),
		discover.WithUserAgent(s.UserAgent),
		discover.WithPages(s.Pages))
	candidates, err := d.Collect(ctx, s.Inputs)
	if err != nil {
		close(verifyingDone)
		<-renderingDone
		if ctx.Err() != nil {
			fmt.Fprintln(errout, interruptedStyle.Styled("interrupted while discovering proxy candidates"))
			return nil
		}
		return err
	}

	report, err := v.Verify(ctx, candidates)
	close(verifyingDone)
	<-renderingDone
	if err != nil {
		return err
	}

	summarize(errout, report)
	if s.Output != "" {
		if err := store.WriteFile(s.Output, report.Proxies); err != nil {
			return err
		}
	} else if err := store.Write(out, report.Proxies); err != nil {
		return err
	}
	if len(report.Proxies) == 0 && !report.Cancelled {
		return errNoGoodProxies
	}
	return nil
}

// milestones returns a progress sink logging progress each time another tenth
// of the candidates has been probed.
func milestones(log zerolog.Logger) progress.Sink {
	last := -1
	return progress.SinkFunc(func(p progress.Progress) {
		tenth := int(p.Percent()) / 10
		if tenth == last {
			return
		}
		last = tenth
		log.Debug().
			Int("completed", p.Completed).
			Int("total", p.Total).
			Int("good", p.Good).
			Msg("progress")
	})
}
