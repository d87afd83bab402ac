/*
Package verifier implements the concurrent proxy verifier: it probes a set of
candidates with a bounded number of parallel probes, de-duplicating the
candidates beforehand in order to avoid expensive duplicate probing.

The concrete probing of a single candidate is carried out by a [Prober], such
as the one from the probe package.

A [Verifier] passes through these phases:

  - Idle: created with a fixed worker budget and probe timeout.
  - Filling: the de-duplicated candidates get queued.
  - Draining: the workers pull candidates from the queue and probe them.
  - Cancelling: the context got cancelled; queued candidates are dropped,
    while probes in flight finish normally.
  - Done: all workers have finished, the results are final.

All outcomes pass through a single tally goroutine, which appends
confirmed-good proxies to the result collector and then sends a progress
update. Thus, progress updates never go backwards.
*/
package verifier
