package fetch

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// domainLimiter spaces outbound requests per publisher domain so bursts of
// page enrichment never hammer one outlet.
type domainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newDomainLimiter(requestsPerSecond float64) *domainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &domainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    2,
	}
}

func (l *domainLimiter) wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[domain] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
