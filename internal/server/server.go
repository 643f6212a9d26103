// Package server exposes the verification pipeline over HTTP for the
// browser extension and other clients.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickdevqrz/veredicto/internal/llm"
	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/verify"
)

const (
	maxRequestBytes = 1 << 20 // 1 MB
	minTextChars    = 10
)

// ContentVerifier is the pipeline surface the server depends on
type ContentVerifier interface {
	VerifyContent(ctx context.Context, article model.Article) *model.Result
	VerifyQuery(ctx context.Context, query string) *model.Result
}

// ArticleFetcher resolves a URL into article content on the caller's behalf
type ArticleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Article, error)
}

// Server is the HTTP surface of the verification pipeline
type Server struct {
	cfg      *model.Config
	verifier ContentVerifier
	fetcher  ArticleFetcher
	judge    llm.Provider // nil disables the judge
	logger   *log.Logger
	limiter  *clientLimiter
	router   *mux.Router

	// Automatic re-analysis throttling. Keyed by article URL; the last
	// result per key is re-served while the gate holds a refresh back.
	gate      *verify.RefreshGate
	refreshMu sync.Mutex
	lastAuto  map[string]*model.Result
}

// New wires the HTTP server. fetcher and judge are optional; a nil fetcher
// rejects fetch_url requests and a nil judge leaves results search-only.
func New(cfg *model.Config, verifier ContentVerifier, fetcher ArticleFetcher, judge llm.Provider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		verifier: verifier,
		fetcher:  fetcher,
		judge:    judge,
		logger:   logger,
		limiter:  newClientLimiter(cfg.Server.RequestsPerMin),
		gate:     verify.NewRefreshGate(),
		lastAuto: make(map[string]*model.Result),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.rateLimitMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/analisar", s.handleAnalisar).Methods(http.MethodPost, http.MethodOptions)

	return r
}

// Handler returns the routing tree for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until the context is canceled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server: listening on %s", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type analisarRequest struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Query    string `json:"query"`
	FetchURL bool   `json:"fetch_url"`
	// Alias accepted for older extension builds
	FetchURLAlt bool `json:"fetchUrl"`
	// Auto marks an extension-initiated periodic re-analysis, which is
	// subject to refresh backoff.
	Auto bool `json:"auto"`
}

type analisarResponse struct {
	Title  string             `json:"title,omitempty"`
	URL    string             `json:"url,omitempty"`
	Domain string             `json:"domain,omitempty"`
	Meta   *model.ArticleMeta `json:"meta,omitempty"`

	Mode       string            `json:"mode"`
	Verdict    model.Verdict     `json:"verdict"`
	Confidence *float64          `json:"confidence"`
	Score      int               `json:"score"`
	Reasons    []string          `json:"reasons"`
	Claims     []model.Claim     `json:"claims"`
	Sources    []model.Source    `json:"sources"`
	Highlights []model.Highlight `json:"highlights"`
	Debug      model.Debug       `json:"debug"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAnalisar(w http.ResponseWriter, r *http.Request) {
	var req analisarRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, s.conservativeResponse("Invalid request body.", model.Debug{}))
		return
	}

	query := strings.TrimSpace(req.Query)
	textTooShort := len(req.Text) < minTextChars

	s.logger.Printf("analisar: title_len=%d text_len=%d domain=%q query=%t",
		len(req.Title), len(req.Text), hostnameOf(req.URL), query != "")

	// Query mode wins when no usable text was sent.
	if textTooShort && query != "" {
		result := s.verifier.VerifyQuery(r.Context(), query)
		writeJSON(w, http.StatusOK, resultResponse("", "", "", nil, result))
		return
	}

	// Extension-initiated periodic re-analyses are throttled per URL;
	// inside the backoff window the previous verdict is re-served.
	autoKey := ""
	if req.Auto && req.URL != "" {
		autoKey = req.URL
		if !s.gate.Allow(autoKey) {
			if prev := s.previousAuto(autoKey); prev != nil {
				writeJSON(w, http.StatusOK, resultResponse(req.Title, req.URL, hostnameOf(req.URL), nil, prev))
				return
			}
			writeJSON(w, http.StatusOK, s.conservativeResponse("Re-analysis throttled.", s.baselineDebug()))
			return
		}
	}

	title, text, articleURL := req.Title, req.Text, req.URL
	var meta *model.ArticleMeta
	domain := ""

	if textTooShort && (req.FetchURL || req.FetchURLAlt) && articleURL != "" {
		if s.fetcher == nil {
			writeJSON(w, http.StatusOK, s.conservativeResponse("Could not access the story.", s.baselineDebug()))
			return
		}
		article, err := s.fetcher.Fetch(r.Context(), articleURL)
		if err != nil || article.Text == "" {
			writeJSON(w, http.StatusOK, s.conservativeResponse("Could not access the story.", s.baselineDebug()))
			return
		}
		if article.Title != "" {
			title = article.Title
		}
		text = article.Text
		if article.URL != "" {
			articleURL = article.URL
		}
		meta = article.Meta
		domain = hostnameOf(articleURL)
	}

	if len(text) < minTextChars {
		writeJSON(w, http.StatusOK, s.conservativeResponse("Insufficient text for verification.", s.baselineDebug()))
		return
	}

	result := s.verifier.VerifyContent(r.Context(), model.Article{Title: title, Text: text, URL: articleURL})

	if s.judge != nil {
		// Judge failures never fail the request; the search-only result
		// stands on its own.
		if jr, err := s.judge.Judge(r.Context(), llm.JudgeRequest{
			Article: model.Article{Title: title, Text: text, URL: articleURL},
			Sources: result.Sources,
		}); err == nil {
			result = llm.MergeResult(result, jr)
		} else {
			s.logger.Printf("analisar: judge failed: %v", err)
		}
	}

	if autoKey != "" {
		s.recordAuto(autoKey, result)
	}

	if domain == "" && articleURL != "" {
		domain = hostnameOf(articleURL)
	}
	writeJSON(w, http.StatusOK, resultResponse(title, articleURL, domain, meta, result))
}

func (s *Server) previousAuto(key string) *model.Result {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.lastAuto[key]
}

func (s *Server) recordAuto(key string, result *model.Result) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.gate.RecordOutcome(key, s.lastAuto[key], result, s.gate.BaseInterval())
	s.lastAuto[key] = result
}

// resultResponse maps a pipeline result onto the wire shape
func resultResponse(title, articleURL, domain string, meta *model.ArticleMeta, result *model.Result) analisarResponse {
	resp := analisarResponse{
		Title:      title,
		URL:        articleURL,
		Domain:     domain,
		Meta:       meta,
		Mode:       result.Mode,
		Verdict:    result.Verdict,
		Confidence: result.Confidence,
		Score:      result.Score,
		Reasons:    result.Reasons,
		Claims:     result.Claims,
		Sources:    result.Sources,
		Highlights: result.Highlights,
		Debug:      result.Debug,
	}
	if resp.Reasons == nil {
		resp.Reasons = []string{}
	}
	if resp.Claims == nil {
		resp.Claims = []model.Claim{}
	}
	if resp.Sources == nil {
		resp.Sources = []model.Source{}
	}
	if resp.Highlights == nil {
		resp.Highlights = []model.Highlight{}
	}
	return resp
}

// conservativeResponse is the degraded answer for every path that cannot
// complete a verification: same shape, lowest-commitment verdict.
func (s *Server) conservativeResponse(reason string, debug model.Debug) analisarResponse {
	return analisarResponse{
		Mode:       model.ModeSearchOnly,
		Verdict:    model.VerdictNotVerifiable,
		Confidence: model.Confidence(0.4),
		Score:      45,
		Reasons:    []string{reason},
		Claims:     []model.Claim{},
		Sources:    []model.Source{},
		Highlights: []model.Highlight{},
		Debug:      debug,
	}
}

func (s *Server) baselineDebug() model.Debug {
	return model.Debug{
		SearchEnabled: true, // the feed backend needs no credentials
		HeuristicUsed: true,
	}
}

func hostnameOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
