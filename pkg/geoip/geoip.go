// Package geoip maps client addresses to ISO country codes.
package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"
)

// Locator resolves an IP address to an ISO 3166 country code, "" when unknown
type Locator interface {
	CountryCode(ip string) string
}

// Reader is a Locator backed by a MaxMind GeoLite2-Country database
type Reader struct {
	db *geoip2.Reader
}

// Open loads the database at path
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open GeoIP database %s", path)
	}
	return &Reader{db: db}, nil
}

// CountryCode implements Locator. Lookup failures count as unknown.
func (r *Reader) CountryCode(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	rec, err := r.db.Country(parsed)
	if err != nil || rec == nil {
		return ""
	}
	return rec.Country.IsoCode
}

// Close releases the database
func (r *Reader) Close() error {
	return r.db.Close()
}

// Static is a Locator over a fixed table, used when no database is configured
type Static map[string]string

// CountryCode implements Locator
func (s Static) CountryCode(ip string) string {
	return s[ip]
}
