/*
Package types defines proxyhunter's information model. Which is rather simple
and mainly revolves around [Candidate] endpoints discovered somewhere out
there, the [Outcome] of probing a single candidate, and finally the
[ValidatedProxy] for those candidates that turned out to be usable.

# Candidates

A [Candidate] is always kept in canonical “a.b.c.d:port” form, as returned by
[ParseCandidate]. This way, de-duplication boils down to plain string
comparison, no matter how sloppy the sources were in spelling out addresses,
with spaces around the colon, leading zeros, and so on.

# Immutability

Please keep in mind that proxyhunter is inherently concurrent: lots of
candidates get probed in parallel by a pool of workers. All types in this
package are thus value types that get copied as they are passed along from
probing workers to the result collector. [Outcome] only offers getters, so
that no-one can "repair" a dead outcome into an alive one after the fact.

# Run State

[RunState] snapshots the progress of a validation run, including its [Phase].
*/
package types
