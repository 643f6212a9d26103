package verify

import (
	"sync"
	"time"

	"github.com/rickdevqrz/veredicto/internal/model"
)

const (
	// minAnalyzeInterval spaces automatic re-analysis of the same content
	minAnalyzeInterval = 4 * time.Second
	// maxBackoffMultiplier caps refresh backoff growth
	maxBackoffMultiplier = 4
	// topSourcesCompared is how many leading sources a change check looks at
	topSourcesCompared = 2
)

type refreshState struct {
	streak        int // consecutive refreshes without a meaningful change
	nextAllowedAt time.Time
}

// RefreshGate throttles repeated analysis of the same content. Every key
// gets a minimum spacing between runs, and periodic refreshes that keep
// producing the same outcome back off multiplicatively until something
// actually changes.
type RefreshGate struct {
	mu          sync.Mutex
	lastRun     map[string]time.Time
	states      map[string]*refreshState
	minInterval time.Duration
	now         func() time.Time // injectable for tests
}

// NewRefreshGate creates a gate with the default spacing
func NewRefreshGate() *RefreshGate {
	return &RefreshGate{
		lastRun:     make(map[string]time.Time),
		states:      make(map[string]*refreshState),
		minInterval: minAnalyzeInterval,
		now:         time.Now,
	}
}

// BaseInterval returns the minimum spacing RecordOutcome multiplies
func (g *RefreshGate) BaseInterval() time.Duration {
	return g.minInterval
}

// Allow reports whether content may be analyzed now and, when it may,
// records the run. Calls inside the minimum interval or inside an active
// backoff window are rejected without side effects.
func (g *RefreshGate) Allow(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.lastRun[key]; ok && now.Sub(last) < g.minInterval {
		return false
	}
	if state, ok := g.states[key]; ok && now.Before(state.nextAllowedAt) {
		return false
	}
	g.lastRun[key] = now
	return true
}

// RecordOutcome updates the backoff state after a refresh completed.
// A meaningful change resets the streak; an unchanged outcome extends the
// wait, multiplying the base interval by min(cap, streak+1).
func (g *RefreshGate) RecordOutcome(key string, prev, next *model.Result, interval time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.states[key]
	if !ok {
		state = &refreshState{}
		g.states[key] = state
	}

	if MeaningfulChange(prev, next) {
		state.streak = 0
		state.nextAllowedAt = g.now().Add(interval)
		return
	}

	state.streak++
	multiplier := state.streak + 1
	if multiplier > maxBackoffMultiplier {
		multiplier = maxBackoffMultiplier
	}
	state.nextAllowedAt = g.now().Add(interval * time.Duration(multiplier))
}

// MeaningfulChange reports whether two results differ in a way worth
// surfacing: a different score, or a different set of leading sources.
func MeaningfulChange(prev, next *model.Result) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	if prev.Score != next.Score {
		return true
	}
	return !sameTopSources(prev.Sources, next.Sources)
}

func sameTopSources(a, b []model.Source) bool {
	for i := 0; i < topSourcesCompared; i++ {
		if sourceKeyAt(a, i) != sourceKeyAt(b, i) {
			return false
		}
	}
	return true
}

func sourceKeyAt(sources []model.Source, i int) string {
	if i >= len(sources) {
		return ""
	}
	if sources[i].URL != "" {
		return sources[i].URL
	}
	return sources[i].Domain
}
