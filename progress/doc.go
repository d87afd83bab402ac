/*
Package progress carries the progress of a validation run to whoever wants to
know, such as a console renderer.

The validation engine emits a [Progress] report to a [Sink] at least once per
completed probe. How often the progress actually gets rendered is up to the
consumer: a [Tracker] simply remembers the latest report for renderers
polling at their own pace.

	       +--------+
	run--->| Sink   |  Update(Progress{Completed, Total, Good})
	       +--------+
*/
package progress
