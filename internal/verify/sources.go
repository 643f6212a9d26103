package verify

import (
	"sort"
	"time"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

// FilterSources normalizes, deduplicates, and caps the evidence list.
// Sources resolving to the target's own domain are dropped so an article
// never corroborates itself. Article verification dedupes by domain (one
// voice per outlet); query mode dedupes by URL so several stories from
// the same outlet can appear side by side.
func FilterSources(sources []model.Source, targetURL string, dedupeByDomain bool, maxSources int) []model.Source {
	targetDomain := trust.NormalizeDomain(targetURL)
	seen := make(map[string]struct{}, len(sources))
	out := make([]model.Source, 0, maxSources)

	for _, src := range sources {
		ref := src.URL
		if ref == "" {
			ref = src.Domain
		}
		domain := trust.NormalizeDomain(ref)
		if domain == "" {
			continue
		}
		if targetDomain != "" && domain == targetDomain {
			continue
		}
		key := domain
		if !dedupeByDomain {
			if src.URL != "" {
				key = src.URL
			}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		kept := src
		kept.Domain = domain
		out = append(out, kept)
		if len(out) == maxSources {
			break
		}
	}
	return out
}

// SortSourcesByDate orders sources newest first. Items without a parseable
// date sink to the end in their original relative order.
func SortSourcesByDate(sources []model.Source) []model.Source {
	out := make([]model.Source, len(sources))
	copy(out, sources)
	sort.SliceStable(out, func(i, j int) bool {
		return publishedTime(out[i]).After(publishedTime(out[j]))
	})
	return out
}

func publishedTime(src model.Source) time.Time {
	if src.PublishedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, src.PublishedAt); err == nil {
			return ts
		}
	}
	return time.Time{}
}
