package heuristic

import (
	"strings"
	"testing"
)

func TestScore_Deterministic(t *testing.T) {
	in := Input{
		Title: "URGENTE!! Cientistas confirmam cura milagrosa!!!",
		Text:  strings.Repeat("noticia curta ", 10),
		URL:   "http://exemplo.xyz/materia",
	}

	first := Score(in)
	for i := 0; i < 5; i++ {
		again := Score(in)
		if again.Score != first.Score {
			t.Fatalf("score changed between calls: %d vs %d", first.Score, again.Score)
		}
		if len(again.Reasons) != len(first.Reasons) {
			t.Fatalf("reasons changed between calls")
		}
	}
}

func TestScore_SensationalShortText(t *testing.T) {
	in := Input{
		Title: "URGENTE!! Cientistas confirmam cura milagrosa!!!",
		Text:  strings.Repeat("x", 200),
		URL:   "http://exemplo.xyz/materia",
	}

	got := Score(in)
	// exclamation runs (8) + sensational term (5) + short text (6)
	// + non-https (4) + suspicious TLD (5)
	if got.Score < 20 {
		t.Errorf("expected score >= 20 for blatantly sensational input, got %d", got.Score)
	}
	if got.Score > ServerScoreCap {
		t.Errorf("score %d exceeds cap %d", got.Score, ServerScoreCap)
	}
	if len(got.Reasons) == 0 {
		t.Error("expected reasons for triggered signals")
	}
}

func TestScore_NeutralText(t *testing.T) {
	in := Input{
		Title: "Congresso aprova novo orcamento para 2026",
		Text:  strings.Repeat("O texto aprovado preve ajustes nas despesas do proximo ano. ", 40),
		URL:   "https://g1.globo.com/politica/orcamento",
	}

	got := Score(in)
	if got.Score > 5 {
		t.Errorf("expected near-zero score for neutral text, got %d (%v)", got.Score, got.Reasons)
	}
}

func TestScore_Bounds(t *testing.T) {
	// Every signal firing at once must still respect the cap
	in := Input{
		Title: "URGENTE BOMBA CHOCANTE REVELADO SEGREDO!!!???",
		Text:  "compartilhe!! vai viralizar?? midia nao mostra",
		URL:   "http://site.click/x",
	}

	got := Score(in)
	if got.Score < 0 || got.Score > ServerScoreCap {
		t.Errorf("score %d out of [0,%d]", got.Score, ServerScoreCap)
	}
}

func TestScore_DiacriticInsensitive(t *testing.T) {
	plain := Score(Input{Title: "noticia", Text: "conteudo urgente aqui " + strings.Repeat("a", 400)})
	accented := Score(Input{Title: "noticia", Text: "conteúdo URGENTE aqui " + strings.Repeat("a", 400)})
	if plain.Score != accented.Score {
		t.Errorf("diacritics changed the score: %d vs %d", plain.Score, accented.Score)
	}
	if plain.Score == 0 {
		t.Error("expected the sensational term to register")
	}
}

func TestScore_AllCapsTitle(t *testing.T) {
	got := Score(Input{Title: "GOVERNO ANUNCIA NOVO PACOTE", Text: strings.Repeat("texto neutro e longo o bastante ", 20)})
	found := false
	for _, r := range got.Reasons {
		if strings.Contains(r, "ALL CAPS") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected all-caps reason, got %v", got.Reasons)
	}
}

func TestPageScore_WiderScaleAndHighlights(t *testing.T) {
	in := Input{
		Title: "URGENTE!! cura milagrosa 100% garantido",
		Text:  "Compartilhe agora 🚀🔥💥 antes que apaguem!!",
		URL:   "http://site.xyz/post",
	}

	got := PageScore(in, "medium")
	if got.Score <= ServerScoreCap {
		t.Errorf("expected page score above the server cap for this input, got %d", got.Score)
	}
	if got.Score > 100 {
		t.Errorf("page score %d exceeds 100", got.Score)
	}
	if len(got.Highlights) == 0 {
		t.Error("expected highlight patterns for triggered signals")
	}
}

func TestPageScore_Sensitivity(t *testing.T) {
	in := Input{
		Title: "URGENTE!! cura milagrosa",
		Text:  strings.Repeat("compartilhe ", 5),
		URL:   "https://site.com/x",
	}

	low := PageScore(in, "low").Score
	medium := PageScore(in, "medium").Score
	high := PageScore(in, "high").Score

	if !(low < medium && medium < high) {
		t.Errorf("expected low < medium < high, got %d / %d / %d", low, medium, high)
	}
}

func TestAccentPattern(t *testing.T) {
	got := accentPattern("voce nao vai acreditar")
	if !strings.Contains(got, `\s+`) {
		t.Errorf("expected whitespace classes in pattern, got %q", got)
	}
	if !strings.Contains(got, "[EÉÈÊeéèê]") {
		t.Errorf("expected accent class for E in pattern, got %q", got)
	}
}
