package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

const feedEndpoint = "https://news.google.com/rss/search"

// FeedBackend queries the public news-feed search endpoint and keeps only
// allowlisted domains. Needs no credential, so it is always available.
type FeedBackend struct {
	baseURL    string
	httpClient *http.Client
	classifier *trust.Classifier
	userAgent  string
	language   string
	country    string
	edition    string
	maxResults int
}

// NewFeedBackend creates the feed-search backend
func NewFeedBackend(classifier *trust.Classifier, cfg *model.SearchConfig, httpCfg *model.HTTPConfig) *FeedBackend {
	return &FeedBackend{
		baseURL:    feedEndpoint,
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		classifier: classifier,
		userAgent:  httpCfg.UserAgent,
		language:   cfg.FeedLanguage,
		country:    cfg.FeedCountry,
		edition:    cfg.FeedEdition,
		maxResults: cfg.MaxResults,
	}
}

func (b *FeedBackend) Name() string { return "rss" }

func (b *FeedBackend) Enabled() bool { return true }

// Retrieve issues one feed query per seed, keeps allowlisted items only,
// deduplicates by URL-or-domain and sorts by published date, newest first.
func (b *FeedBackend) Retrieve(ctx context.Context, seeds []string) Result {
	seen := make(map[string]bool)
	var items []feedItem
	attempted := false
	ok := false

	for _, seed := range seeds {
		if seed == "" {
			continue
		}
		attempted = true

		fetched, err := b.fetchFeed(ctx, seed)
		if err != nil {
			continue
		}
		ok = true

		for _, item := range fetched {
			key := item.source.URL
			if key == "" {
				key = item.source.Domain
			}
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, item)
			if len(items) >= b.maxResults {
				break
			}
		}
		if len(items) >= b.maxResults {
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].published.After(items[j].published)
	})

	sources := make([]model.Source, 0, len(items))
	for _, item := range items {
		sources = append(sources, item.source)
	}

	return Result{
		Items:     sources,
		Attempted: attempted,
		OK:        attempted && ok,
		Provider:  b.Name(),
	}
}

type feedItem struct {
	source    model.Source
	published time.Time
}

func (b *FeedBackend) fetchFeed(ctx context.Context, query string) ([]feedItem, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s",
		b.baseURL, url.QueryEscape(query), b.language, b.country, url.QueryEscape(b.edition))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	parser := rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var items []feedItem
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}

		link := entry.Link
		sourceURL := ""
		if entry.Source != nil {
			sourceURL = entry.Source.URL
		}

		// The feed entry links through an aggregator; the publisher's own
		// hostname lives in the <source> element, so prefer it for trust checks.
		domain := trust.NormalizeDomain(sourceURL)
		if domain == "" {
			domain = trust.NormalizeDomain(link)
		}
		if domain == "" || !b.classifier.IsAllowlisted(domain) {
			continue
		}

		finalURL := link
		if finalURL == "" {
			finalURL = sourceURL
		}

		published := time.Time{}
		if entry.PubDateParsed != nil {
			published = *entry.PubDateParsed
		}

		items = append(items, feedItem{
			source: model.Source{
				URL:         finalURL,
				Domain:      domain,
				Title:       entry.Title,
				PublishedAt: entry.PubDate,
			},
			published: published,
		})
		if len(items) >= b.maxResults {
			break
		}
	}

	return items, nil
}
