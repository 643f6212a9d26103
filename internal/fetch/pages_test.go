package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

type allowAllChecker struct{}

func (allowAllChecker) IsSafeURL(ctx context.Context, rawURL string) bool { return true }

type denyAllChecker struct{}

func (denyAllChecker) IsSafeURL(ctx context.Context, rawURL string) bool { return false }

func testEnricher(server *httptest.Server, checker SafetyChecker) *Enricher {
	cfg := model.DefaultConfig()
	classifier := trust.NewClassifier(&model.TrustConfig{
		Allowlist: []string{"127.0.0.1"},
	})
	return NewEnricher(classifier, checker, &cfg.HTTP, &cfg.Search)
}

func articleHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}
}

func TestEnrichPages_ExtractsMainContent(t *testing.T) {
	html := `<html><body>
	  <nav>menu curto</nav>
	  <article>Conteudo principal da materia publicada hoje com todos os detalhes relevantes.</article>
	</body></html>`
	server := httptest.NewServer(articleHandler(html))
	defer server.Close()

	e := testEnricher(server, allowAllChecker{})
	got := e.EnrichPages(context.Background(), []model.Source{
		{URL: server.URL + "/noticia", Domain: "127.0.0.1", Title: "Materia"},
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 enriched source, got %d", len(got))
	}
	if !strings.Contains(got[0].Snippet, "Conteudo principal") {
		t.Errorf("expected article text in snippet, got %q", got[0].Snippet)
	}
	if got[0].Title != "Materia" {
		t.Errorf("candidate title must be preserved, got %q", got[0].Title)
	}
	if got[0].Domain != "127.0.0.1" {
		t.Errorf("unexpected domain %q", got[0].Domain)
	}
}

func TestEnrichPages_FailuresAreDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		case strings.HasPrefix(r.URL.Path, "/ok"):
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><article>Texto valido de noticia</article></body></html>")
		case strings.HasPrefix(r.URL.Path, "/json"):
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"not":"html"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	e := testEnricher(server, allowAllChecker{})
	got := e.EnrichPages(context.Background(), []model.Source{
		{URL: server.URL + "/ok", Domain: "127.0.0.1"},
		{URL: server.URL + "/json", Domain: "127.0.0.1"},
		{URL: server.URL + "/missing", Domain: "127.0.0.1"},
		{URL: server.URL + "/blocked.pdf", Domain: "127.0.0.1"},
	})

	if len(got) != 1 {
		t.Fatalf("expected only the healthy page to survive, got %d", len(got))
	}
	if !strings.Contains(got[0].URL, "/ok") {
		t.Errorf("unexpected survivor %q", got[0].URL)
	}
}

func TestEnrichPages_SafetyGateBlocksFetch(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	e := testEnricher(server, denyAllChecker{})
	got := e.EnrichPages(context.Background(), []model.Source{
		{URL: server.URL + "/noticia", Domain: "127.0.0.1"},
	})

	if len(got) != 0 {
		t.Fatalf("expected no sources past the safety gate, got %d", len(got))
	}
	if requests != 0 {
		t.Errorf("expected zero network calls for unsafe URLs, saw %d", requests)
	}
}

func TestEnrichPages_RobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><article>texto</article></body></html>")
	}))
	defer server.Close()

	e := testEnricher(server, allowAllChecker{})
	got := e.EnrichPages(context.Background(), []model.Source{
		{URL: server.URL + "/noticia", Domain: "127.0.0.1"},
	})
	if len(got) != 0 {
		t.Errorf("expected robots.txt disallow to drop the candidate, got %d items", len(got))
	}
}

func TestEnrichPages_SourceCap(t *testing.T) {
	server := httptest.NewServer(articleHandler("<html><body><article>Texto util da noticia</article></body></html>"))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Search.MaxSources = 2
	classifier := trust.NewClassifier(&model.TrustConfig{Allowlist: []string{"127.0.0.1"}})
	e := NewEnricher(classifier, allowAllChecker{}, &cfg.HTTP, &cfg.Search)

	var candidates []model.Source
	for i := 0; i < 5; i++ {
		candidates = append(candidates, model.Source{
			URL:    fmt.Sprintf("%s/n%d", server.URL, i),
			Domain: "127.0.0.1",
		})
	}

	got := e.EnrichPages(context.Background(), candidates)
	if len(got) != 2 {
		t.Errorf("expected maxSources cap of 2, got %d", len(got))
	}
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	server := httptest.NewServer(articleHandler("<html><body><div>apenas um paragrafo solto no corpo</div></body></html>"))
	defer server.Close()

	e := testEnricher(server, allowAllChecker{})
	got := e.EnrichPages(context.Background(), []model.Source{
		{URL: server.URL + "/x", Domain: "127.0.0.1"},
	})
	if len(got) != 1 || !strings.Contains(got[0].Snippet, "paragrafo solto") {
		t.Fatalf("expected body fallback extraction, got %+v", got)
	}
}
