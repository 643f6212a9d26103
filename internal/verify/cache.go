package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// Key truncation budgets keep fingerprints stable for near-identical input
const (
	keyTitleChars = 60
	keyTextChars  = 120
	keyQueryChars = 120
)

// Cache memoizes verification results per content fingerprint for one TTL
// window. Entries expire lazily on read; the go-cache janitor sweeps
// leftovers so the map stays bounded under churn.
type Cache struct {
	store   *gocache.Cache
	enabled bool
}

// NewCache creates the verification cache
func NewCache(cfg *model.CacheConfig) *Cache {
	return &Cache{
		store:   gocache.New(cfg.TTL, cfg.TTL),
		enabled: cfg.Enabled,
	}
}

// Get returns a cached result, or nil when absent or expired
func (c *Cache) Get(key string) *model.Result {
	if !c.enabled {
		return nil
	}
	if val, found := c.store.Get(key); found {
		if result, ok := val.(*model.Result); ok {
			return result
		}
	}
	return nil
}

// Set stores a result under the default TTL
func (c *Cache) Set(key string, result *model.Result) {
	if !c.enabled {
		return
	}
	c.store.Set(key, result, gocache.DefaultExpiration)
}

// SetWithTTL stores a result with an explicit TTL (tests use short windows)
func (c *Cache) SetWithTTL(key string, result *model.Result, ttl time.Duration) {
	if !c.enabled {
		return
	}
	c.store.Set(key, result, ttl)
}

// ContentKey fingerprints an article for cache lookup
func ContentKey(title, url, text string) string {
	raw := fmt.Sprintf("%s|%s|%s", truncateRunes(title, keyTitleChars), url, truncateRunes(text, keyTextChars))
	return hashKey(raw)
}

// QueryKey fingerprints a free-text query, disambiguated from article keys
func QueryKey(query string) string {
	return hashKey("query|" + truncateRunes(query, keyQueryChars))
}

func hashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "veredicto:v1:" + hex.EncodeToString(sum[:])
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
