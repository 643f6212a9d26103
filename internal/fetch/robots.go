package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsChecker caches robots.txt verdicts per host. Unreachable or
// malformed robots files allow fetching; only an explicit disallow blocks.
type robotsChecker struct {
	mu         sync.RWMutex
	cache      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

func newRobotsChecker(userAgent string, timeout time.Duration) *robotsChecker {
	return &robotsChecker{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// allowed reports whether rawURL may be crawled under the host's robots.txt
func (r *robotsChecker) allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	data, err := r.robotsData(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true
	}
	return data.TestAgent(parsed.Path, r.userAgent)
}

func (r *robotsChecker) robotsData(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()
	if exists {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()
	return data, nil
}
