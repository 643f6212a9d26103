package model

// Source represents one piece of corroborating evidence for a story
type Source struct {
	URL         string `json:"url"`
	Domain      string `json:"domain"`                // normalized hostname, never empty for a retained source
	Title       string `json:"title,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"` // as reported by the backend, best effort
}

// Verdict labels the outcome of a verification run
type Verdict string

const (
	VerdictConfirmedMultiple Verdict = "confirmed-by-multiple"
	VerdictConfirmed         Verdict = "confirmed"
	VerdictConfirmedTrusted  Verdict = "confirmed-single-trusted"
	VerdictLikelyTrue        Verdict = "likely-true"
	VerdictMixed             Verdict = "mixed-evidence"
	VerdictCheckRecommended  Verdict = "verification-recommended"
	VerdictNotVerifiable     Verdict = "not-verifiable"
	VerdictRecentNews        Verdict = "recent news" // query mode only
)

// HeuristicSignal is the output of the rule-based text scorer
type HeuristicSignal struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Highlight marks a text pattern the page scorer flagged for display
type Highlight struct {
	Type  string `json:"type"`  // "term" or "regex"
	Value string `json:"value"`
	Flags string `json:"flags,omitempty"`
}

// Debug carries diagnostic metadata about a verification run.
// It is surfaced to the caller for status display and never feeds scoring.
type Debug struct {
	SearchUsed     bool   `json:"search_used"`
	SearchEnabled  bool   `json:"search_enabled"`
	SearchOK       *bool  `json:"search_ok"`
	SearchProvider string `json:"search_provider"`
	FetchedSources int    `json:"fetched_sources"`
	HeuristicUsed  bool   `json:"heuristic_used"`
	QueryMode      bool   `json:"query_mode,omitempty"`
}

// Result is the complete outcome of a verification run
type Result struct {
	Mode       string      `json:"mode"`
	Verdict    Verdict     `json:"verdict"`
	Confidence *float64    `json:"confidence"` // nil in query mode
	Score      int         `json:"score"`      // 0..100
	Reasons    []string    `json:"reasons"`
	Claims     []Claim     `json:"claims"`
	Sources    []Source    `json:"sources"`
	Highlights []Highlight `json:"highlights"`
	Debug      Debug       `json:"debug"`
}

// Claim is a checked statement attached to a result by the LLM judge.
// The search-only core never produces claims; the slice stays empty there.
type Claim struct {
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

// ArticleMeta is page metadata gathered by the article fetcher
type ArticleMeta struct {
	Description   string `json:"description,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	OutboundLinks int    `json:"outboundLinks"`
}

// Article is the normalized input to content verification
type Article struct {
	Title string
	Text  string
	URL   string
	Meta  *ArticleMeta
}

// Confidence wraps a float for use as Result.Confidence
func Confidence(v float64) *float64 { return &v }

// ModeSearchOnly is the only mode the core pipeline emits; the LLM judge
// collaborator upgrades it to "verify" when its output is merged in.
const (
	ModeSearchOnly = "search_only"
	ModeVerify     = "verify"
)
