// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// Resolver looks up the countries of IP addresses in a MaxMind GeoIP2 or
// GeoLite2 country (or city) database, caching the results. A Resolver is
// safe for concurrent use.
type Resolver struct {
	reader *geoip2.Reader
	mu     sync.RWMutex
	cache  map[string]string // IP address -> English country name
}

// Open returns a new Resolver using the MaxMind database file at the
// specified path.
func Open(path string) (*Resolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open GeoIP database, reason: %w", err)
	}
	return &Resolver{
		reader: reader,
		cache:  map[string]string{},
	}, nil
}

// Close releases the database.
func (r *Resolver) Close() error {
	return r.reader.Close()
}

// Origin returns the English name of the country the specified IP address is
// located in, or "" if the database doesn't know.
func (r *Resolver) Origin(ip string) (string, error) {
	r.mu.RLock()
	country, ok := r.cache[ip]
	r.mu.RUnlock()
	if ok {
		return country, nil
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", fmt.Errorf("invalid IP address %q", ip)
	}
	record, err := r.reader.Country(addr)
	if err != nil {
		return "", err
	}
	country = record.Country.Names["en"]
	r.mu.Lock()
	r.cache[ip] = country
	r.mu.Unlock()
	return country, nil
}
