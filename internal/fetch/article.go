package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

// ArticleFetcher retrieves a single article page on the caller's behalf,
// used when the inbound request carries only a URL and the fetch-url flag.
type ArticleFetcher struct {
	httpClient   *http.Client
	checker      SafetyChecker
	userAgent    string
	maxBodyBytes int64
	maxTextChars int
	timeout      time.Duration
}

// NewArticleFetcher creates an article fetcher
func NewArticleFetcher(checker SafetyChecker, cfg *model.HTTPConfig) *ArticleFetcher {
	return &ArticleFetcher{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		checker:      checker,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		maxTextChars: cfg.MaxTextChars,
		timeout:      cfg.Timeout,
	}
}

// Fetch retrieves the page and extracts title, main text and metadata.
// The safety gate runs first; an unsafe URL is an error, not a fetch.
func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) (*model.Article, error) {
	if !f.checker.IsSafeURL(ctx, rawURL) {
		return nil, errUnsafeURL
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml+xml") {
		return nil, errNotHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &model.Article{
		Title: extractTitle(doc),
		Text:  extractMainText(doc, f.maxTextChars),
		URL:   finalURL,
		Meta: &model.ArticleMeta{
			Description:   metaContent(doc, "description", "og:description"),
			PublishedTime: metaContent(doc, "article:published_time", "datePublished"),
			SiteName:      metaContent(doc, "og:site_name"),
			OutboundLinks: countOutboundLinks(doc, finalURL),
		},
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "og:title", "twitter:title"); t != "" {
		return t
	}
	if t := collapseWhitespace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapseWhitespace(doc.Find("h1").First().Text())
}

// metaContent returns the first non-empty content among meta tags matching
// any key by name, property or itemprop.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		selector := fmt.Sprintf(`meta[name=%q], meta[property=%q], meta[itemprop=%q]`, key, key, key)
		if content, ok := doc.Find(selector).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

func countOutboundLinks(doc *goquery.Document, baseURL string) int {
	base, err := url.Parse(baseURL)
	if err != nil || base.Hostname() == "" {
		return 0
	}
	baseDomain := trust.NormalizeDomain(base.Hostname())

	count := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		host := trust.NormalizeDomain(resolved.Hostname())
		if host != "" && host != baseDomain {
			count++
		}
	})
	return count
}
