/*
Package probe implements a proxy (in)validator.

A [Prober] checks a single [types.Candidate] by sending an HTTP request
through it, acting either as an HTTP forward proxy or as a SOCKS5 proxy, to a
fixed reference endpoint. There are two validation modes:

  - liveness-only: the proxy must relay the request and the reference endpoint
    must reply with a well-formed JSON response telling the exit IP address.
    The origin is left empty, unless an offline [OriginResolver] has been
    configured.
  - liveness plus geolocation: the reference endpoint is a geolocation
    service; the proxy must relay the request and the service must not report
    a “fail” status. The reported country becomes the origin, with
    [types.UnknownOrigin] as the fallback.

Either way, a probe turns a candidate into an outcome:

	               +---+
	Candidate----->| P +-->Outcome (Alive(ValidatedProxy) | Dead(reason))
	               +---+

The probe timeout bounds the whole probe, from connecting to the candidate up
to reading the full response. Connection failures, timeouts, malformed
responses, and failure statuses all end in the same way: as a dead
[types.Outcome]. Probes never return errors or panic on network trouble.

To probe candidates from a network namespace different to that of the
OS-level thread of the caller specify the [InNetworkNamespace] option and pass
it a filesystem path that must reference a network namespace (such as
"/proc/666/ns/net").
*/
package probe
