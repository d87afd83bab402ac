// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/siemens/proxyhunter/collect"
	"github.com/siemens/proxyhunter/progress"
	"github.com/siemens/proxyhunter/types"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidWorkers indicates a worker budget that isn't positive.
	ErrInvalidWorkers = errors.New("worker budget must be positive")
	// ErrInvalidTimeout indicates a probe timeout that isn't positive.
	ErrInvalidTimeout = errors.New("probe timeout must be positive")
	// ErrNotIdle indicates an attempt to run a Verifier more than once.
	ErrNotIdle = errors.New("verifier has already been run")
)

// Prober checks a single candidate within the specified timeout. Probe must
// be safe for concurrent use and must always return an outcome, never
// panic on network trouble.
type Prober interface {
	Probe(ctx context.Context, candidate types.Candidate, timeout time.Duration) types.Outcome
}

// ProberFunc adapts an ordinary function to the Prober interface.
type ProberFunc func(ctx context.Context, candidate types.Candidate, timeout time.Duration) types.Outcome

// Probe calls f(ctx, candidate, timeout).
func (f ProberFunc) Probe(ctx context.Context, candidate types.Candidate, timeout time.Duration) types.Outcome {
	return f(ctx, candidate, timeout)
}

// Verifier verifies a set of candidates using a bounded pool of workers, each
// worker probing one candidate at a time. Duplicate candidates are probed only
// once. Confirmed-good proxies end up in a result collector.
//
// A Verifier is single-use: it runs once from Idle to Done.
type Verifier struct {
	workers   int
	timeout   time.Duration
	prober    Prober
	sink      progress.Sink
	log       zerolog.Logger
	collector *collect.Collector

	phase     atomic.Int32 // types.Phase
	total     atomic.Int64
	completed atomic.Int64
	cancelled atomic.Bool
}

// VerifierOption can be passed to New when creating new Verifier objects.
type VerifierOption func(*Verifier)

// WithProgress sets the sink receiving a progress update after each completed
// probe.
func WithProgress(sink progress.Sink) VerifierOption {
	return func(v *Verifier) {
		if sink != nil {
			v.sink = sink
		}
	}
}

// WithLogger sets the logger for diagnostic messages; per-probe diagnostics
// are logged at debug level.
func WithLogger(log zerolog.Logger) VerifierOption {
	return func(v *Verifier) {
		v.log = log
	}
}

// Report summarizes a finished verification run.
type Report struct {
	Proxies    []types.ValidatedProxy // confirmed-good proxies, sorted by origin.
	Total      int                    // distinct candidates.
	Duplicates int                    // duplicate candidates dropped.
	Completed  int                    // candidates probed to completion.
	Cancelled  bool                   // run got interrupted.
	Elapsed    time.Duration
}

// New returns a new Verifier that probes candidates using the specified
// prober, with at most the specified number of parallel probes, each probe
// bounded by the specified timeout.
func New(workers int, timeout time.Duration, prober Prober, opts ...VerifierOption) (*Verifier, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkers
	}
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}
	v := &Verifier{
		workers:   workers,
		timeout:   timeout,
		prober:    prober,
		sink:      progress.Discard,
		log:       zerolog.Nop(),
		collector: collect.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// State returns the current run state. It is safe to call State at any time,
// also while Verify is running.
func (v *Verifier) State() types.RunState {
	total := int(v.total.Load())
	completed := int(v.completed.Load())
	return types.RunState{
		Phase:     types.Phase(v.phase.Load()),
		Total:     total,
		Remaining: total - completed,
		Completed: completed,
		Good:      v.collector.Count(),
		Cancelled: v.cancelled.Load(),
	}
}

// Verify de-duplicates the specified candidates and then probes them until
// either all have been probed or the context gets cancelled. It returns a
// report including the confirmed-good proxies, sorted by origin.
//
// When the context gets cancelled, Verify stops handing out further
// candidates to workers. Probes already in flight are never aborted, but
// finish within their timeout, so Verify returns at most one probe timeout
// after cancellation. A cancelled run still reports what has been found.
func (v *Verifier) Verify(ctx context.Context, candidates []types.Candidate) (Report, error) {
	if !v.phase.CompareAndSwap(int32(types.Idle), int32(types.Filling)) {
		return Report{}, ErrNotIdle
	}
	start := time.Now()

	set := NewCandidateSet()
	set.AddAll(candidates)
	queue := set.Candidates()
	total := len(queue)
	v.total.Store(int64(total))
	v.log.Debug().
		Int("candidates", total).
		Int("duplicates", set.Duplicates()).
		Int("workers", v.workers).
		Dur("timeout", v.timeout).
		Msg("verifying candidates")

	if total > 0 {
		v.drain(ctx, queue)
	}
	v.phase.Store(int32(types.Done))

	return Report{
		Proxies:    v.collector.Snapshot(),
		Total:      total,
		Duplicates: set.Duplicates(),
		Completed:  int(v.completed.Load()),
		Cancelled:  v.cancelled.Load(),
		Elapsed:    time.Since(start),
	}, nil
}

// drain probes the queued candidates using a bounded worker pool, returning
// only after all workers have finished.
func (v *Verifier) drain(ctx context.Context, queue []types.Candidate) {
	total := int64(len(queue))
	workers := min(v.workers, len(queue))
	pool := workerpool.New(workers)

	// A single consumer tallies the outcomes, so that progress updates are
	// strictly ordered and completed counts never go backwards.
	outcomes := make(chan types.Outcome, workers)
	allDone := make(chan struct{})
	tallied := make(chan struct{})
	go func() {
		defer close(tallied)
		for outcome := range outcomes {
			if outcome.IsAlive() {
				v.collector.Append(outcome.Proxy())
			}
			completed := v.completed.Add(1)
			v.sink.Update(progress.Progress{
				Completed: int(completed),
				Total:     int(total),
				Good:      v.collector.Count(),
			})
			if completed == total {
				close(allDone)
			}
		}
	}()

	// In-flight probes must not be aborted on cancellation, so they get a
	// context that isn't cancelled together with ours.
	probectx := context.WithoutCancel(ctx)
	for _, candidate := range queue {
		candidate := candidate
		pool.Submit(func() {
			if v.cancelled.Load() {
				return
			}
			outcome := v.prober.Probe(probectx, candidate, v.timeout)
			if outcome.IsAlive() {
				v.log.Debug().
					Str("candidate", candidate.String()).
					Str("origin", outcome.Proxy().Origin).
					Msg("alive")
			} else {
				v.log.Debug().
					Str("candidate", candidate.String()).
					Err(outcome.Reason()).
					Msg("dead")
			}
			outcomes <- outcome
		})
	}
	v.phase.Store(int32(types.Draining))

	select {
	case <-allDone:
		pool.StopWait()
	case <-ctx.Done():
		select {
		case <-allDone:
			pool.StopWait()
		default:
			v.cancel()
			// Abandon all queued candidates, waiting only for the probes in
			// flight.
			pool.Stop()
		}
	}
	close(outcomes)
	<-tallied
}

// cancel flips the cancellation flag, at most once.
func (v *Verifier) cancel() {
	if !v.cancelled.CompareAndSwap(false, true) {
		return
	}
	v.phase.Store(int32(types.Cancelling))
	v.log.Info().
		Int64("completed", v.completed.Load()).
		Int64("total", v.total.Load()).
		Msg("cancelled, waiting for probes in flight")
}
