/*
Package test provides an in-process test harness of fake proxies and fake
reference endpoints.

  - [NewFakeProxy] returns an HTTP forward proxy that doesn't forward at all,
    but instead answers all requests itself using a reference handler, such as
    [Liveness] or [Geolocation].
  - [NewSOCKS5Proxy] returns a minimal SOCKS5 proxy that accepts CONNECT
    requests to any destination and then serves the tunneled HTTP requests
    itself using a reference handler.
  - [NewBlackhole] returns a TCP listener that accepts connections, but never
    answers.
*/
package test
