package safeurl

import (
	"context"
	"errors"
	"net/netip"
	"testing"
)

func staticLookup(addr string) LookupFunc {
	return func(ctx context.Context, host string) ([]netip.Addr, error) {
		return []netip.Addr{netip.MustParseAddr(addr)}, nil
	}
}

func failingLookup(ctx context.Context, host string) ([]netip.Addr, error) {
	return nil, errors.New("no such host")
}

func TestIsSafeURL_LiteralIPs(t *testing.T) {
	c := NewChecker()
	ctx := context.Background()

	unsafe := []string{
		"http://127.0.0.1/",
		"http://10.0.0.5/admin",
		"http://172.16.0.1/",
		"http://172.31.255.254/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/",
		"http://[fc00::1]/",
		"http://[fe80::1]/",
		"http://[::ffff:127.0.0.1]/",
		"http://0.0.0.0/",
	}
	for _, u := range unsafe {
		if c.IsSafeURL(ctx, u) {
			t.Errorf("expected %s to be rejected", u)
		}
	}

	safe := []string{
		"http://93.184.216.34/",
		"https://[2606:2800:220:1:248:1893:25c8:1946]/",
		"http://172.32.0.1/", // just outside 172.16/12
	}
	for _, u := range safe {
		if !c.IsSafeURL(ctx, u) {
			t.Errorf("expected %s to be accepted", u)
		}
	}
}

func TestIsSafeURL_BlockedHostnames(t *testing.T) {
	c := NewCheckerWithLookup(staticLookup("93.184.216.34"))
	ctx := context.Background()

	// Rejected before any resolution happens
	for _, u := range []string{
		"http://localhost/",
		"http://localhost:8080/",
		"http://foo.localhost/",
		"http://printer.local/",
	} {
		if c.IsSafeURL(ctx, u) {
			t.Errorf("expected %s to be rejected without resolution", u)
		}
	}
}

func TestIsSafeURL_Schemes(t *testing.T) {
	c := NewCheckerWithLookup(staticLookup("93.184.216.34"))
	ctx := context.Background()

	for _, u := range []string{"ftp://example.com/", "file:///etc/passwd", "gopher://example.com/", ""} {
		if c.IsSafeURL(ctx, u) {
			t.Errorf("expected %s to be rejected", u)
		}
	}
	if !c.IsSafeURL(ctx, "https://example.com/") {
		t.Error("expected https URL with public resolution to be accepted")
	}
}

func TestIsSafeURL_Resolution(t *testing.T) {
	ctx := context.Background()

	public := NewCheckerWithLookup(staticLookup("93.184.216.34"))
	if !public.IsSafeURL(ctx, "http://example.com/") {
		t.Error("host resolving to public address must be accepted")
	}

	private := NewCheckerWithLookup(staticLookup("10.1.2.3"))
	if private.IsSafeURL(ctx, "http://例.example.com/") || private.IsSafeURL(ctx, "http://rebind.example.com/") {
		t.Error("host resolving to private address must be rejected")
	}

	failed := NewCheckerWithLookup(failingLookup)
	if failed.IsSafeURL(ctx, "http://example.invalid/") {
		t.Error("resolution failure must fail closed")
	}

	empty := NewCheckerWithLookup(func(ctx context.Context, host string) ([]netip.Addr, error) {
		return nil, nil
	})
	if empty.IsSafeURL(ctx, "http://example.com/") {
		t.Error("empty resolution must fail closed")
	}
}
