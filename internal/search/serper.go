package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperBackend queries the Serper keyword-search API, restricting every
// query to the domain allowlist via site: filters.
type SerperBackend struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	allowlist  []string
	maxResults int
}

// NewSerperBackend creates the keyword-search backend. An empty API key
// leaves the backend disabled.
func NewSerperBackend(apiKey string, allowlist []string, maxResults int, timeout time.Duration) *SerperBackend {
	return &SerperBackend{
		apiKey:     apiKey,
		endpoint:   serperEndpoint,
		httpClient: &http.Client{Timeout: timeout},
		allowlist:  allowlist,
		maxResults: maxResults,
	}
}

func (b *SerperBackend) Name() string { return "serper" }

// Enabled reports whether a credential is configured
func (b *SerperBackend) Enabled() bool { return b.apiKey != "" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperOrganic struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

// Retrieve issues one allowlist-restricted query per seed, merges the
// organic results, deduplicates by URL and caps at the configured maximum.
// Individual request failures are dropped so one bad seed never ends the run.
func (b *SerperBackend) Retrieve(ctx context.Context, seeds []string) Result {
	if !b.Enabled() {
		return Result{Provider: b.Name()}
	}

	seen := make(map[string]bool)
	var items []model.Source

	for _, seed := range seeds {
		organic, err := b.query(ctx, seed)
		if err != nil {
			continue
		}
		for _, entry := range organic {
			if entry.Link == "" || seen[entry.Link] {
				continue
			}
			seen[entry.Link] = true
			items = append(items, model.Source{
				URL:         entry.Link,
				Domain:      trust.NormalizeDomain(entry.Link),
				Title:       entry.Title,
				Snippet:     entry.Snippet,
				PublishedAt: entry.Date,
			})
			if len(items) >= b.maxResults {
				break
			}
		}
		if len(items) >= b.maxResults {
			break
		}
	}

	return Result{Items: items, Attempted: true, OK: true, Provider: b.Name()}
}

func (b *SerperBackend) query(ctx context.Context, seed string) ([]serperOrganic, error) {
	body, err := json.Marshal(serperRequest{Q: b.buildQuery(seed), Num: b.maxResults})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Organic, nil
}

// buildQuery combines a seed with an OR of site: filters so results stay
// inside the allowlist.
func (b *SerperBackend) buildQuery(seed string) string {
	if len(b.allowlist) == 0 {
		return seed
	}
	sites := make([]string, 0, len(b.allowlist))
	for _, domain := range b.allowlist {
		sites = append(sites, "site:"+domain)
	}
	return fmt.Sprintf("%s (%s)", seed, strings.Join(sites, " OR "))
}
