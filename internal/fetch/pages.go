// Package fetch turns candidate search results into evidence by fetching
// pages and extracting their main content. Every per-item failure is
// isolated: a bad page is dropped, never the batch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/search"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

// SafetyChecker gates candidate URLs before any network call.
// *safeurl.Checker satisfies it.
type SafetyChecker interface {
	IsSafeURL(ctx context.Context, rawURL string) bool
}

// Error kinds for dropped candidates. Reported by leaf fetches and
// collapsed to "item dropped" at the aggregation point.
var (
	errNotNewsURL       = errors.New("not a fetchable news URL")
	errUnsafeURL        = errors.New("url failed the safety gate")
	errRobotsDisallowed = errors.New("robots.txt disallows fetching")
	errNotHTML          = errors.New("response is not an HTML document")
)

// contentSelectors are tried in order; the longest text block wins
var contentSelectors = []string{"article", "main", "#content", ".content", ".post", ".entry-content"}

var whitespaceRuns = regexp.MustCompile(`\s+`)

const snippetChars = 400

// Enricher fetches up to maxResults candidate pages concurrently
type Enricher struct {
	httpClient   *http.Client
	checker      SafetyChecker
	robots       *robotsChecker
	limiter      *domainLimiter
	classifier   *trust.Classifier
	userAgent    string
	maxBodyBytes int64
	maxTextChars int
	maxResults   int
	maxSources   int
	timeout      time.Duration
}

// NewEnricher creates a page-fetch enricher
func NewEnricher(classifier *trust.Classifier, checker SafetyChecker, httpCfg *model.HTTPConfig, searchCfg *model.SearchConfig) *Enricher {
	return &Enricher{
		httpClient:   &http.Client{Timeout: httpCfg.Timeout},
		checker:      checker,
		robots:       newRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		limiter:      newDomainLimiter(httpCfg.PerDomainRPS),
		classifier:   classifier,
		userAgent:    httpCfg.UserAgent,
		maxBodyBytes: httpCfg.MaxBodyBytes,
		maxTextChars: httpCfg.MaxTextChars,
		maxResults:   searchCfg.MaxResults,
		maxSources:   searchCfg.MaxSources,
		timeout:      httpCfg.Timeout,
	}
}

// EnrichPages fetches candidate pages concurrently and returns the sources
// whose fetch and extraction succeeded, in candidate order, capped at
// maxSources. Failures reduce the evidence count, nothing else.
func (e *Enricher) EnrichPages(ctx context.Context, candidates []model.Source) []model.Source {
	if len(candidates) > e.maxResults {
		candidates = candidates[:e.maxResults]
	}
	if len(candidates) == 0 {
		return nil
	}

	results := make([]*model.Source, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(idx int, item model.Source) {
			defer wg.Done()
			enriched, err := e.fetchOne(ctx, item)
			if err != nil {
				return
			}
			results[idx] = &enriched
		}(i, candidate)
	}
	wg.Wait()

	evidence := make([]model.Source, 0, len(candidates))
	for _, r := range results {
		if r == nil {
			continue
		}
		evidence = append(evidence, *r)
		if len(evidence) >= e.maxSources {
			break
		}
	}
	return evidence
}

// fetchOne fetches and extracts a single candidate page
func (e *Enricher) fetchOne(ctx context.Context, item model.Source) (model.Source, error) {
	if !search.IsLikelyNewsURL(item.URL, e.classifier) {
		return model.Source{}, errNotNewsURL
	}
	if !e.checker.IsSafeURL(ctx, item.URL) {
		return model.Source{}, errUnsafeURL
	}
	if !e.robots.allowed(ctx, item.URL) {
		return model.Source{}, errRobotsDisallowed
	}
	if err := e.limiter.wait(ctx, item.Domain); err != nil {
		return model.Source{}, fmt.Errorf("rate limit: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, item.URL, nil)
	if err != nil {
		return model.Source{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return model.Source{}, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Source{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml+xml") {
		return model.Source{}, errNotHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return model.Source{}, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.Source{}, fmt.Errorf("parse html: %w", err)
	}

	text := extractMainText(doc, e.maxTextChars)
	snippet := text
	if len([]rune(snippet)) > snippetChars {
		snippet = string([]rune(snippet)[:snippetChars])
	}

	finalURL := item.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return model.Source{
		URL:         finalURL,
		Domain:      trust.NormalizeDomain(finalURL),
		Title:       item.Title,
		Snippet:     snippet,
		PublishedAt: item.PublishedAt,
	}, nil
}

// extractMainText takes the longest text among known content containers,
// falling back to the whole body, normalized to single spaces.
func extractMainText(doc *goquery.Document, maxChars int) string {
	best := ""
	for _, selector := range contentSelectors {
		text := collapseWhitespace(doc.Find(selector).Text())
		if len(text) > len(best) {
			best = text
		}
	}
	if best == "" {
		best = collapseWhitespace(doc.Find("body").Text())
	}

	runes := []rune(best)
	if len(runes) > maxChars {
		best = string(runes[:maxChars])
	}
	return best
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
