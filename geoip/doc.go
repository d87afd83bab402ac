/*
Package geoip resolves the origin of exit IP addresses offline, using a MaxMind
GeoIP2 or GeoLite2 database.
*/
package geoip
