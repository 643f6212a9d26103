package verify

import (
	"testing"

	"github.com/rickdevqrz/veredicto/internal/model"
)

func TestFilterSources_DedupeByDomain(t *testing.T) {
	in := []model.Source{
		{URL: "https://g1.globo.com/a"},
		{URL: "https://g1.globo.com/b"},
		{URL: "https://www.reuters.com/c"},
	}
	got := FilterSources(in, "", true, 5)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want 2", len(got))
	}
	if got[0].Domain != "g1.globo.com" || got[1].Domain != "reuters.com" {
		t.Errorf("domains = %q, %q", got[0].Domain, got[1].Domain)
	}
}

func TestFilterSources_DedupeByURL(t *testing.T) {
	in := []model.Source{
		{URL: "https://g1.globo.com/a"},
		{URL: "https://g1.globo.com/b"},
		{URL: "https://g1.globo.com/a"},
	}
	got := FilterSources(in, "", false, 5)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want distinct URLs kept", len(got))
	}
}

func TestFilterSources_ExcludesTargetDomain(t *testing.T) {
	in := []model.Source{
		{URL: "https://example.com/self"},
		{URL: "https://reuters.com/other"},
	}
	got := FilterSources(in, "https://www.example.com/article", true, 5)
	if len(got) != 1 || got[0].Domain != "reuters.com" {
		t.Errorf("got %+v, want the target's own domain dropped", got)
	}
}

func TestFilterSources_DropsUnresolvable(t *testing.T) {
	in := []model.Source{
		{URL: "", Domain: ""},
		{URL: "https://reuters.com/x"},
	}
	got := FilterSources(in, "", true, 5)
	if len(got) != 1 {
		t.Fatalf("got %d sources, want empty entries dropped", len(got))
	}
}

func TestFilterSources_Cap(t *testing.T) {
	in := []model.Source{
		{URL: "https://a.com/1"},
		{URL: "https://b.com/2"},
		{URL: "https://c.com/3"},
	}
	got := FilterSources(in, "", true, 2)
	if len(got) != 2 {
		t.Fatalf("got %d sources, want cap of 2", len(got))
	}
	if got[0].Domain != "a.com" || got[1].Domain != "b.com" {
		t.Error("cap should keep the leading sources")
	}
}

func TestFilterSources_DomainOnlyEntry(t *testing.T) {
	in := []model.Source{{Domain: "reuters.com"}}
	got := FilterSources(in, "", true, 5)
	if len(got) != 1 || got[0].Domain != "reuters.com" {
		t.Errorf("got %+v, want domain-only entry retained", got)
	}
}

func TestSortSourcesByDate(t *testing.T) {
	in := []model.Source{
		{URL: "https://a.com/old", PublishedAt: "Mon, 02 Jan 2023 10:00:00 +0000"},
		{URL: "https://b.com/new", PublishedAt: "2024-06-01T12:00:00Z"},
		{URL: "https://c.com/none"},
		{URL: "https://d.com/mid", PublishedAt: "2023-12-01"},
	}
	got := SortSourcesByDate(in)

	order := []string{"https://b.com/new", "https://d.com/mid", "https://a.com/old", "https://c.com/none"}
	for i, want := range order {
		if got[i].URL != want {
			t.Errorf("position %d = %q, want %q", i, got[i].URL, want)
		}
	}

	// Input order is preserved.
	if in[0].URL != "https://a.com/old" {
		t.Error("input slice must not be reordered")
	}
}
