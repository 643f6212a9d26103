package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Server SrvConfig    `yaml:"server"`
	HTTP   HTTPConfig   `yaml:"http"`
	Search SearchConfig `yaml:"search"`
	Trust  TrustConfig  `yaml:"trust"`
	Cache  CacheConfig  `yaml:"cache"`
	LLM    LLMConfig    `yaml:"llm"`
}

// SrvConfig configures the HTTP surface
type SrvConfig struct {
	Addr           string  `yaml:"addr"`
	APIToken       string  `yaml:"api_token"`        // empty disables the bearer check
	RequestsPerMin float64 `yaml:"requests_per_min"` // per-client rate limit
}

// HTTPConfig bounds all outbound fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	MaxTextChars int           `yaml:"max_text_chars"`
	PerDomainRPS float64       `yaml:"per_domain_rps"`
}

// SearchConfig configures the evidence retrieval backends
type SearchConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SerperAPIKey string `yaml:"serper_api_key"`
	MaxResults   int    `yaml:"max_results"`
	MaxSources   int    `yaml:"max_sources"`
	FeedLanguage string `yaml:"feed_language"` // hl parameter of the news feed endpoint
	FeedCountry  string `yaml:"feed_country"`  // gl parameter
	FeedEdition  string `yaml:"feed_edition"`  // ceid parameter
}

// TrustConfig is the domain allowlist plus the editorial group tables.
// Pure configuration data: swapping it never changes pipeline behavior.
type TrustConfig struct {
	Allowlist []string `yaml:"allowlist"`
	// Groups is ordered: the first group whose list matches a domain wins.
	Groups []SourceGroup `yaml:"groups"`
}

// SourceGroup names one editorial or institutional bucket
type SourceGroup struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
}

// CacheConfig bounds the verification memoization layer
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig configures the optional judge provider
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// High-trust group names. Membership in any of them marks a source as
// high-trust for verdict composition.
const (
	GroupAgency    = "agency"
	GroupOfficial  = "official"
	GroupFactcheck = "factcheck"
)

// DefaultConfig returns the shipped configuration, including the full
// domain allowlist and source-group tables.
func DefaultConfig() *Config {
	return &Config{
		Server: SrvConfig{
			Addr:           ":8787",
			RequestsPerMin: 60,
		},
		HTTP: HTTPConfig{
			Timeout:      7 * time.Second,
			UserAgent:    "VeredictoBot/1.0 (+https://github.com/rickdevqrz/veredicto)",
			MaxBodyBytes: 2_000_000,
			MaxTextChars: 2500,
			PerDomainRPS: 2,
		},
		Search: SearchConfig{
			Enabled:      true,
			MaxResults:   8,
			MaxSources:   5,
			FeedLanguage: "pt-BR",
			FeedCountry:  "BR",
			FeedEdition:  "BR:pt-419",
		},
		Trust: TrustConfig{
			Allowlist: defaultAllowlist(),
			Groups:    defaultGroups(),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 700,
		},
	}
}

func defaultAllowlist() []string {
	return []string{
		"agenciabrasil.ebc.com.br",
		"apublica.org",
		"brasildefato.com.br",
		"cartacapital.com.br",
		"gazetadopovo.com.br",
		"g1.globo.com",
		"jovempan.com.br",
		"nexojornal.com.br",
		"oglobo.globo.com",
		"oantagonista.com.br",
		"r7.com",
		"revistaoeste.com",
		"uol.com.br",
		"valor.globo.com",
		"veja.abril.com.br",
		"veja.com",
		"folha.uol.com.br",
		"estadao.com.br",
		"bbc.com",
		"bbc.co.uk",
		"reuters.com",
		"apnews.com",
		"gov.br",
		"saude.gov.br",
		"stf.jus.br",
		"senado.leg.br",
		"camara.leg.br",
		"anvisa.gov.br",
		"ibge.gov.br",
		"aosfatos.org",
		"lupa.uol.com.br",
		"boatos.org",
		"redebrasilatual.com.br",
		"theintercept.com",
		"afp.com",
		"aljazeera.com",
		"asia.nikkei.com",
		"democracynow.org",
		"eldiario.es",
		"ft.com",
		"foxnews.com",
		"jacobin.com",
		"monde-diplomatique.fr",
		"mondediplo.com",
		"nationalreview.com",
		"nytimes.com",
		"nypost.com",
		"spectator.co.uk",
		"telegraph.co.uk",
		"telesurenglish.net",
		"telesur.net",
		"theguardian.com",
		"thenation.com",
		"washingtonexaminer.com",
		"welt.de",
		"wsj.com",
	}
}

func defaultGroups() []SourceGroup {
	return []SourceGroup{
		{Name: "right", Domains: []string{
			"gazetadopovo.com.br", "revistaoeste.com", "jovempan.com.br", "r7.com",
			"oantagonista.com.br", "veja.abril.com.br", "veja.com", "foxnews.com",
			"wsj.com", "telegraph.co.uk", "nationalreview.com", "spectator.co.uk",
			"nypost.com", "washingtonexaminer.com", "welt.de",
		}},
		{Name: "center", Domains: []string{
			"g1.globo.com", "uol.com.br", "folha.uol.com.br", "estadao.com.br",
			"oglobo.globo.com", "valor.globo.com", "bbc.com", "bbc.co.uk",
			"aljazeera.com", "ft.com", "nytimes.com", "theguardian.com",
			"asia.nikkei.com", "nexojornal.com.br",
		}},
		{Name: "left", Domains: []string{
			"brasildefato.com.br", "cartacapital.com.br", "theintercept.com",
			"redebrasilatual.com.br", "apublica.org", "democracynow.org",
			"jacobin.com", "eldiario.es", "monde-diplomatique.fr", "mondediplo.com",
			"thenation.com", "telesurenglish.net", "telesur.net",
		}},
		{Name: GroupAgency, Domains: []string{
			"reuters.com", "apnews.com", "afp.com", "agenciabrasil.ebc.com.br",
		}},
		{Name: GroupOfficial, Domains: []string{
			"gov.br", "saude.gov.br", "stf.jus.br", "senado.leg.br",
			"camara.leg.br", "anvisa.gov.br", "ibge.gov.br",
		}},
		{Name: GroupFactcheck, Domains: []string{
			"aosfatos.org", "lupa.uol.com.br", "boatos.org",
		}},
	}
}
