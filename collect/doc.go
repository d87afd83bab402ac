/*
Package collect implements the result collector for confirmed-good proxies.

A [Collector] is append-only: proxies never get removed or modified once
appended. Appending and counting are safe for concurrent use; counting never
waits for appenders. The final, ordered result is taken with
[Collector.Snapshot] after all probing has ended: it is sorted by origin, with
ties keeping their original appending order.
*/
package collect
