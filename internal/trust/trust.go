package trust

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// Classifier maps domains to allowlist membership and editorial groups.
// Pure lookup logic, no I/O.
type Classifier struct {
	allowlist []string
	groups    []model.SourceGroup
	highTrust map[string]bool
}

// NewClassifier creates a classifier from the trust configuration
func NewClassifier(cfg *model.TrustConfig) *Classifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Trust
	}
	return &Classifier{
		allowlist: cfg.Allowlist,
		groups:    cfg.Groups,
		highTrust: map[string]bool{
			model.GroupAgency:    true,
			model.GroupOfficial:  true,
			model.GroupFactcheck: true,
		},
	}
}

// NormalizeDomain reduces a URL or bare hostname to a normalized domain:
// lowercased, punycode-encoded, leading "www." stripped. Unparseable input
// degrades to a best-effort cleanup of the raw string, never an error.
func NormalizeDomain(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	host := s
	if parsed, err := url.Parse(s); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	} else if idx := strings.LastIndex(host, ":"); idx > 0 {
		// bare host with a port
		host = host[:idx]
	}

	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")

	// Internationalized hostnames normalize to their punycode form so that
	// allowlist matching stays byte-exact. ASCII hosts map to themselves,
	// which keeps normalization idempotent.
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	return host
}

// matchesDomain reports whether domain equals base or is a subdomain of it
func matchesDomain(domain, base string) bool {
	return domain == base || strings.HasSuffix(domain, "."+base)
}

// IsAllowlisted reports whether a normalized domain is on the allowlist
func (c *Classifier) IsAllowlisted(domain string) bool {
	if domain == "" {
		return false
	}
	for _, base := range c.allowlist {
		if matchesDomain(domain, base) {
			return true
		}
	}
	return false
}

// Classify returns the editorial group of a normalized domain, or "" when
// the domain belongs to no group. Groups are checked in configuration
// order and the first match wins.
func (c *Classifier) Classify(domain string) string {
	if domain == "" {
		return ""
	}
	for _, group := range c.groups {
		for _, base := range group.Domains {
			if matchesDomain(domain, base) {
				return group.Name
			}
		}
	}
	return ""
}

// Stats summarizes the trust composition of an evidence set
type Stats struct {
	GroupCount     int // distinct editorial groups seen (high-trust groups excluded)
	AgencyCount    int
	OfficialCount  int
	FactcheckCount int
	HasHighTrust   bool
}

// SourceStats classifies every source and aggregates the trust composition
// used by verdict composition.
func (c *Classifier) SourceStats(sources []model.Source) Stats {
	var stats Stats
	editorial := make(map[string]bool)

	for _, src := range sources {
		domain := src.Domain
		if domain == "" {
			domain = NormalizeDomain(src.URL)
		}
		if domain == "" {
			continue
		}
		switch group := c.Classify(domain); group {
		case "":
		case model.GroupAgency:
			stats.AgencyCount++
		case model.GroupOfficial:
			stats.OfficialCount++
		case model.GroupFactcheck:
			stats.FactcheckCount++
		default:
			editorial[group] = true
		}
	}

	stats.GroupCount = len(editorial)
	stats.HasHighTrust = stats.AgencyCount+stats.OfficialCount+stats.FactcheckCount > 0
	return stats
}

// IsHighTrust reports whether the named group counts as high-trust
func (c *Classifier) IsHighTrust(group string) bool {
	return c.highTrust[group]
}
