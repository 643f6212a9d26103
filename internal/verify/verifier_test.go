package verify

import (
	"context"
	"strings"
	"testing"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/search"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

type stubBackend struct {
	name     string
	disabled bool
	result   search.Result
	calls    int
	gotSeeds []string
}

func (s *stubBackend) Name() string  { return s.name }
func (s *stubBackend) Enabled() bool { return !s.disabled }

func (s *stubBackend) Retrieve(ctx context.Context, seeds []string) search.Result {
	s.calls++
	s.gotSeeds = seeds
	return s.result
}

func okResult(provider string, items ...model.Source) search.Result {
	return search.Result{Items: items, Attempted: true, OK: true, Provider: provider}
}

func newTestVerifier(primary, fallback *stubBackend) *Verifier {
	cfg := model.DefaultConfig()
	classifier := trust.NewClassifier(&cfg.Trust)
	return New(cfg, classifier, primary, fallback, nil, nil)
}

func TestVerifyContent_SensationalNoEvidence(t *testing.T) {
	primary := &stubBackend{name: "serper", result: okResult("serper")}
	fallback := &stubBackend{name: "rss", result: okResult("rss")}
	v := newTestVerifier(primary, fallback)

	article := model.Article{
		Title: "URGENTE!! Cientistas confirmam cura milagrosa!!!",
		Text:  strings.Repeat("Compartilhe antes que apaguem. ", 6), // ~190 chars
		URL:   "http://portal.xyz/materia",
	}
	result := v.VerifyContent(context.Background(), article)

	if result.Verdict != model.VerdictCheckRecommended {
		t.Errorf("verdict = %q, want %q", result.Verdict, model.VerdictCheckRecommended)
	}
	if result.Score < 55 || result.Score > 65 {
		t.Errorf("score = %d, want within [55, 65]", result.Score)
	}
	if result.Confidence == nil || *result.Confidence != 0.52 {
		t.Errorf("confidence = %v, want 0.52", result.Confidence)
	}
	if len(result.Sources) != 0 {
		t.Errorf("sources = %v, want none", result.Sources)
	}
	if !result.Debug.SearchUsed || !result.Debug.HeuristicUsed {
		t.Errorf("debug = %+v, want search attempted and heuristic marked", result.Debug)
	}
}

func TestVerifyContent_MultipleSources(t *testing.T) {
	evidence := []model.Source{
		{URL: "https://www.gov.br/saude/pt-br/novidade", Title: "Nota oficial"},
		{URL: "https://g1.globo.com/saude/materia", Title: "Cobertura"},
		{URL: "https://folha.uol.com.br/cotidiano/materia", Title: "Reportagem"},
	}
	primary := &stubBackend{name: "serper", result: okResult("serper", evidence...)}
	fallback := &stubBackend{name: "rss"}
	v := newTestVerifier(primary, fallback)

	article := model.Article{
		Title: "Ministerio da Saude amplia campanha de vacinacao",
		Text:  strings.Repeat("A campanha foi ampliada para novos grupos segundo o comunicado oficial divulgado hoje. ", 23),
		URL:   "https://blog-qualquer.com/post",
	}
	result := v.VerifyContent(context.Background(), article)

	if result.Verdict != model.VerdictConfirmedMultiple {
		t.Errorf("verdict = %q, want %q", result.Verdict, model.VerdictConfirmedMultiple)
	}
	if result.Confidence == nil || *result.Confidence != 0.88 {
		t.Errorf("confidence = %v, want 0.88", result.Confidence)
	}
	if result.Score != 12 {
		t.Errorf("score = %d, want 12", result.Score)
	}
	if len(result.Sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(result.Sources))
	}
	if result.Debug.SearchProvider != "serper" {
		t.Errorf("provider = %q, want serper", result.Debug.SearchProvider)
	}
	if result.Debug.SearchOK == nil || !*result.Debug.SearchOK {
		t.Errorf("search_ok = %v, want true", result.Debug.SearchOK)
	}
	if fallback.calls != 0 {
		t.Error("feed backend should not run when search produced evidence")
	}
}

func TestVerifyContent_FeedFallback(t *testing.T) {
	primary := &stubBackend{name: "serper", result: search.Result{Attempted: true, OK: false, Provider: "serper"}}
	fallback := &stubBackend{name: "rss", result: okResult("rss",
		model.Source{URL: "https://reuters.com/a", Title: "Wire"},
		model.Source{URL: "https://g1.globo.com/b", Title: "Portal"},
	)}
	v := newTestVerifier(primary, fallback)

	article := model.Article{Title: "Acordo comercial anunciado em cupula", Text: "", URL: ""}
	result := v.VerifyContent(context.Background(), article)

	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("calls = %d/%d, want both backends tried", primary.calls, fallback.calls)
	}
	if result.Debug.SearchProvider != "rss" {
		t.Errorf("provider = %q, want rss", result.Debug.SearchProvider)
	}
	if result.Debug.SearchOK == nil || !*result.Debug.SearchOK {
		t.Errorf("search_ok = %v, want true after feed succeeded", result.Debug.SearchOK)
	}
	// Two sources, one agency: confirmed at 0.82.
	if result.Verdict != model.VerdictConfirmed {
		t.Errorf("verdict = %q", result.Verdict)
	}
}

func TestVerifyContent_SearchDisabledUsesFeedOnly(t *testing.T) {
	primary := &stubBackend{name: "serper", disabled: true}
	fallback := &stubBackend{name: "rss", result: okResult("rss")}
	v := newTestVerifier(primary, fallback)

	result := v.VerifyContent(context.Background(), model.Article{Title: "Assunto generico de teste"})

	if primary.calls != 0 {
		t.Error("disabled search backend must not be called")
	}
	if fallback.calls != 1 {
		t.Error("feed backend should have been tried")
	}
	if !result.Debug.SearchEnabled {
		t.Error("search_enabled should stay true while the feed backend exists")
	}
}

func TestVerifyContent_CachesResult(t *testing.T) {
	primary := &stubBackend{name: "serper", result: okResult("serper", model.Source{URL: "https://reuters.com/x"})}
	fallback := &stubBackend{name: "rss"}
	v := newTestVerifier(primary, fallback)

	article := model.Article{Title: "Mesma noticia duas vezes", URL: "https://example.com/a"}
	first := v.VerifyContent(context.Background(), article)
	second := v.VerifyContent(context.Background(), article)

	if primary.calls != 1 {
		t.Errorf("backend called %d times, want 1", primary.calls)
	}
	if first != second {
		t.Error("second call should return the cached result")
	}
}

func TestVerifyContent_SeedsReachBackend(t *testing.T) {
	primary := &stubBackend{name: "serper", result: okResult("serper", model.Source{URL: "https://reuters.com/x"})}
	v := newTestVerifier(primary, &stubBackend{name: "rss"})

	v.VerifyContent(context.Background(), model.Article{Title: "Congresso vota novo projeto - Portal ABC"})

	if len(primary.gotSeeds) == 0 || primary.gotSeeds[0] != "Congresso vota novo projeto" {
		t.Errorf("seeds = %v, want normalized title first", primary.gotSeeds)
	}
}

func TestVerifyQuery_RecentNews(t *testing.T) {
	items := []model.Source{
		{URL: "https://g1.globo.com/old", PublishedAt: "Mon, 01 Jan 2024 10:00:00 +0000"},
		{URL: "https://reuters.com/new", PublishedAt: "Wed, 03 Jan 2024 10:00:00 +0000"},
		{URL: "https://g1.globo.com/mid", PublishedAt: "Tue, 02 Jan 2024 10:00:00 +0000"},
		{URL: "https://folha.uol.com.br/oldest", PublishedAt: "Sun, 31 Dec 2023 10:00:00 +0000"},
	}
	primary := &stubBackend{name: "serper", result: okResult("serper")}
	fallback := &stubBackend{name: "rss", result: okResult("rss", items...)}
	v := newTestVerifier(primary, fallback)

	result := v.VerifyQuery(context.Background(), "eleicoes 2026")

	if result.Verdict != model.VerdictRecentNews {
		t.Errorf("verdict = %q, want %q", result.Verdict, model.VerdictRecentNews)
	}
	if result.Confidence != nil {
		t.Errorf("confidence = %v, want nil in query mode", result.Confidence)
	}
	if result.Score != 0 {
		t.Errorf("score = %d, want 0", result.Score)
	}
	if !result.Debug.QueryMode || result.Debug.HeuristicUsed {
		t.Errorf("debug = %+v", result.Debug)
	}
	if primary.calls != 0 {
		t.Error("query mode should prefer the feed and skip search when it succeeds")
	}

	// Sorted newest first, deduped by URL so one domain may repeat.
	wantOrder := []string{
		"https://reuters.com/new",
		"https://g1.globo.com/mid",
		"https://g1.globo.com/old",
		"https://folha.uol.com.br/oldest",
	}
	if len(result.Sources) != len(wantOrder) {
		t.Fatalf("got %d sources, want %d", len(result.Sources), len(wantOrder))
	}
	for i, want := range wantOrder {
		if result.Sources[i].URL != want {
			t.Errorf("sources[%d] = %q, want %q", i, result.Sources[i].URL, want)
		}
	}
}

func TestVerifyQuery_SearchFallback(t *testing.T) {
	primary := &stubBackend{name: "serper", result: okResult("serper", model.Source{URL: "https://reuters.com/x"})}
	fallback := &stubBackend{name: "rss", result: okResult("rss")}
	v := newTestVerifier(primary, fallback)

	result := v.VerifyQuery(context.Background(), "tema sem cobertura no feed")

	if fallback.calls != 1 || primary.calls != 1 {
		t.Fatalf("calls = %d/%d, want feed then search", fallback.calls, primary.calls)
	}
	if result.Debug.SearchProvider != "serper" {
		t.Errorf("provider = %q, want serper", result.Debug.SearchProvider)
	}
	if len(result.Sources) != 1 {
		t.Errorf("got %d sources", len(result.Sources))
	}
}

func TestVerifyQuery_QuerySeedLeads(t *testing.T) {
	fallback := &stubBackend{name: "rss", result: okResult("rss", model.Source{URL: "https://reuters.com/x"})}
	v := newTestVerifier(&stubBackend{name: "serper"}, fallback)

	v.VerifyQuery(context.Background(), "  reforma tributaria  ")

	if len(fallback.gotSeeds) == 0 || fallback.gotSeeds[0] != "reforma tributaria" {
		t.Errorf("seeds = %v, want trimmed query first", fallback.gotSeeds)
	}
}
