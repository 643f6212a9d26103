package verify

import (
	"strings"
	"testing"
)

func TestBuildSeeds_TitleDominates(t *testing.T) {
	seeds := BuildSeeds("Governo anuncia novo pacote fiscal - Portal XYZ", "", "")
	if len(seeds) != 2 {
		t.Fatalf("seeds = %v, want normalized plus full title", seeds)
	}
	if seeds[0] != "Governo anuncia novo pacote fiscal" {
		t.Errorf("seeds[0] = %q, want site suffix stripped", seeds[0])
	}
	if seeds[1] != "Governo anuncia novo pacote fiscal - Portal XYZ" {
		t.Errorf("seeds[1] = %q, want the full title", seeds[1])
	}
}

func TestBuildSeeds_PipeSeparator(t *testing.T) {
	seeds := BuildSeeds("Nova vacina aprovada | Folha", "", "")
	if seeds[0] != "Nova vacina aprovada" {
		t.Errorf("seeds[0] = %q", seeds[0])
	}
}

func TestBuildSeeds_SentenceFromBody(t *testing.T) {
	text := "Curto. O ministerio da saude confirmou nesta quarta-feira a chegada de novas doses ao pais. Resto."
	seeds := BuildSeeds("Titulo longo o suficiente", text, "")
	found := false
	for _, s := range seeds {
		if strings.HasPrefix(s, "O ministerio da saude confirmou") {
			found = true
		}
	}
	if !found {
		t.Errorf("seeds = %v, want the first substantial sentence", seeds)
	}
}

func TestBuildSeeds_LeadTextFallback(t *testing.T) {
	// No single sentence reaches the long threshold, so the lead text is
	// used as the seed.
	text := "Palavra um dois tres quatro cinco. Seis sete oito nove dez onze doze. Fim por aqui."
	seeds := BuildSeeds("", text, "")
	if len(seeds) != 1 {
		t.Fatalf("seeds = %v", seeds)
	}
	if !strings.HasPrefix(seeds[0], "Palavra um dois") {
		t.Errorf("seeds[0] = %q, want the leading text", seeds[0])
	}
	if got := len([]rune(seeds[0])); got > leadTextChars {
		t.Errorf("lead seed has %d runes, want <= %d", got, leadTextChars)
	}
}

func TestBuildSeeds_URLFallback(t *testing.T) {
	seeds := BuildSeeds("curto", "", "https://example.com/materia")
	if len(seeds) != 1 || seeds[0] != "https://example.com/materia" {
		t.Errorf("seeds = %v, want the URL alone", seeds)
	}
}

func TestBuildSeeds_EmptyInputPlaceholder(t *testing.T) {
	seeds := BuildSeeds("", "", "")
	if len(seeds) != 1 || seeds[0] != "noticia recente" {
		t.Errorf("seeds = %v, want the generic placeholder", seeds)
	}
}

func TestBuildSeeds_CapAndDedupe(t *testing.T) {
	title := "Mesma frase repetida aqui - Mesma frase repetida aqui"
	text := "Primeira sentenca bastante longa para entrar como semente de busca valida aqui. Segunda."
	seeds := BuildSeeds(title, text, "https://example.com")
	if len(seeds) > 3 {
		t.Fatalf("got %d seeds, want at most 3", len(seeds))
	}
	seen := map[string]bool{}
	for _, s := range seeds {
		key := strings.ToLower(s)
		if seen[key] {
			t.Errorf("duplicate seed %q", s)
		}
		seen[key] = true
	}
}

func TestPickSearchSentence_Caps(t *testing.T) {
	long := strings.Repeat("a", 500) + ". fim"
	got := pickSearchSentence(long)
	if n := len([]rune(got)); n > sentenceCapChars {
		t.Errorf("sentence has %d runes, want <= %d", n, sentenceCapChars)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Titulo - Site", "Titulo"},
		{"Titulo | Site", "Titulo"},
		{"Titulo - A | B", "Titulo"},
		{"  Sem separador  ", "Sem separador"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
