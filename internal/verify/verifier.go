// Package verify orchestrates the verification pipeline: seed building,
// evidence retrieval with backend fallback, source filtering, and verdict
// composition, memoized behind a TTL cache.
package verify

import (
	"context"
	"log"
	"strings"

	"github.com/rickdevqrz/veredicto/internal/heuristic"
	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/search"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

// PageEnricher upgrades snippet-only evidence with fetched page text
type PageEnricher interface {
	EnrichPages(ctx context.Context, candidates []model.Source) []model.Source
}

// Verifier runs content and query verification
type Verifier struct {
	cfg        *model.Config
	classifier *trust.Classifier
	primary    search.Backend // keyword search, preferred for article text
	fallback   search.Backend // news feed, preferred for free-text queries
	enricher   PageEnricher
	cache      *Cache
	logger     *log.Logger
}

// New wires a verifier from its collaborators. A nil enricher disables
// page fetching; retrieval then relies on backend snippets alone.
func New(cfg *model.Config, classifier *trust.Classifier, primary, fallback search.Backend, enricher PageEnricher, logger *log.Logger) *Verifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Verifier{
		cfg:        cfg,
		classifier: classifier,
		primary:    primary,
		fallback:   fallback,
		enricher:   enricher,
		cache:      NewCache(&cfg.Cache),
		logger:     logger,
	}
}

// evidence is the aggregate outcome of one retrieval pass
type evidence struct {
	items    []model.Source
	used     bool   // at least one backend was attempted
	ok       *bool  // nil until a backend reports success or failure
	provider string // backend that supplied the evidence
	enabled  bool
}

// VerifyContent runs the full article pipeline: heuristic scoring,
// evidence retrieval with page enrichment, and verdict composition.
func (v *Verifier) VerifyContent(ctx context.Context, article model.Article) *model.Result {
	key := ContentKey(article.Title, article.URL, article.Text)
	if cached := v.cache.Get(key); cached != nil {
		return cached
	}

	heur := heuristic.Score(heuristic.Input{
		Title: article.Title,
		Text:  article.Text,
		URL:   article.URL,
	})

	seeds := BuildSeeds(article.Title, article.Text, article.URL)
	data := v.collectEvidence(ctx, seeds, true, true)

	filtered := FilterSources(data.items, article.URL, true, v.cfg.Search.MaxSources)
	stats := v.classifier.SourceStats(filtered)
	comp := Compose(filtered, stats, heur, true)

	result := &model.Result{
		Mode:       model.ModeSearchOnly,
		Verdict:    comp.Verdict,
		Confidence: model.Confidence(comp.Confidence),
		Score:      comp.Score,
		Reasons:    comp.Reasons,
		Claims:     []model.Claim{},
		Sources:    filtered,
		Highlights: []model.Highlight{},
		Debug: model.Debug{
			SearchUsed:     data.used,
			SearchEnabled:  data.enabled,
			SearchOK:       data.ok,
			SearchProvider: data.provider,
			FetchedSources: len(data.items),
			HeuristicUsed:  true,
		},
	}

	v.cache.Set(key, result)
	return result
}

// VerifyQuery retrieves the latest coverage for a free-text query.
// No article text exists to score, so the result carries no confidence
// and a zero score; the verdict is informational only.
func (v *Verifier) VerifyQuery(ctx context.Context, query string) *model.Result {
	key := QueryKey(query)
	if cached := v.cache.Get(key); cached != nil {
		return cached
	}

	clean := strings.TrimSpace(query)
	seeds := uniqueSeeds(append([]string{clean}, BuildSeeds(clean, "", "")...), maxSeeds)
	data := v.collectEvidence(ctx, seeds, false, false)

	ordered := SortSourcesByDate(data.items)
	filtered := FilterSources(ordered, "", false, v.cfg.Search.MaxSources)

	result := &model.Result{
		Mode:       model.ModeSearchOnly,
		Verdict:    model.VerdictRecentNews,
		Confidence: nil,
		Score:      0,
		Reasons:    []string{"Showing the latest news about the searched topic."},
		Claims:     []model.Claim{},
		Sources:    filtered,
		Highlights: []model.Highlight{},
		Debug: model.Debug{
			SearchUsed:     data.used,
			SearchEnabled:  data.enabled,
			SearchOK:       data.ok,
			SearchProvider: data.provider,
			FetchedSources: len(data.items),
			HeuristicUsed:  false,
			QueryMode:      true,
		},
	}

	v.cache.Set(key, result)
	return result
}

// collectEvidence tries the backends in priority order. Article runs
// prefer keyword search and fall back to the feed; query runs prefer the
// feed (freshness beats relevance there) and fall back to search. The
// second backend only runs when the first produced nothing.
func (v *Verifier) collectEvidence(ctx context.Context, seeds []string, preferSearch, fetchPages bool) evidence {
	searchEnabled := v.cfg.Search.Enabled && v.primary.Enabled()
	data := evidence{enabled: searchEnabled || v.fallback.Enabled()}

	trySearch := func() bool {
		if !searchEnabled {
			return false
		}
		data.used = true
		res := v.primary.Retrieve(ctx, seeds)
		if !res.OK {
			if data.ok == nil {
				f := false
				data.ok = &f
			}
			return false
		}
		t := true
		data.ok = &t
		if len(res.Items) > 0 {
			data.items = res.Items
			if fetchPages && v.enricher != nil {
				if enriched := v.enricher.EnrichPages(ctx, res.Items); len(enriched) > 0 {
					data.items = enriched
				}
			}
		}
		if len(data.items) > 0 {
			data.provider = res.Provider
			return true
		}
		return false
	}

	tryFeed := func() bool {
		res := v.fallback.Retrieve(ctx, seeds)
		if res.Attempted {
			data.used = true
		}
		if res.OK {
			t := true
			data.ok = &t
		} else if res.Attempted && data.ok == nil {
			f := false
			data.ok = &f
		}
		if len(res.Items) > 0 {
			data.items = res.Items
			data.provider = res.Provider
			return true
		}
		if res.Attempted && data.provider == "" {
			data.provider = res.Provider
		}
		return false
	}

	if preferSearch {
		trySearch()
		if len(data.items) == 0 {
			tryFeed()
		}
	} else {
		tryFeed()
		if len(data.items) == 0 {
			trySearch()
		}
	}

	if data.used && len(data.items) == 0 {
		v.logger.Printf("verify: no evidence retrieved (provider=%q ok=%v)", data.provider, data.ok)
	}
	return data
}
