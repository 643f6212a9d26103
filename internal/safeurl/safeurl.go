// Package safeurl gates outbound fetches of user-influenced URLs.
// Every check fails closed: a URL is fetchable only when the scheme, the
// hostname and the resolved address are all provably public.
package safeurl

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// LookupFunc resolves a hostname to its addresses. Injectable for tests.
type LookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

// Checker validates URLs before any fetch is attempted
type Checker struct {
	lookup LookupFunc
}

// NewChecker creates a checker backed by the default resolver
func NewChecker() *Checker {
	return &Checker{lookup: defaultLookup}
}

// NewCheckerWithLookup creates a checker with a custom resolver
func NewCheckerWithLookup(lookup LookupFunc) *Checker {
	return &Checker{lookup: lookup}
}

func defaultLookup(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

// IsSafeURL reports whether rawURL may be fetched. It rejects non-http(s)
// schemes, loopback-style hostnames, and any host that is or resolves to a
// private, loopback or link-local address. Resolution failure is unsafe.
func (c *Checker) IsSafeURL(ctx context.Context, rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := parsed.Hostname()
	if isBlockedHostname(host) {
		return false
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return !isPrivateAddr(addr)
	}

	addrs, err := c.lookup(ctx, host)
	if err != nil || len(addrs) == 0 {
		return false
	}
	return !isPrivateAddr(addrs[0])
}

func isBlockedHostname(host string) bool {
	lower := strings.ToLower(host)
	if lower == "" {
		return true
	}
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return true
	}
	return strings.HasSuffix(lower, ".local")
}

// isPrivateAddr classifies loopback, RFC1918/ULA, link-local and
// unspecified addresses as private. IPv4-mapped IPv6 addresses are
// unmapped first so their IPv4 classification applies.
func isPrivateAddr(addr netip.Addr) bool {
	a := addr.Unmap()
	return a.IsLoopback() ||
		a.IsPrivate() ||
		a.IsLinkLocalUnicast() ||
		a.IsLinkLocalMulticast() ||
		a.IsUnspecified()
}
