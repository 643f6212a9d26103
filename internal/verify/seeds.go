package verify

import (
	"regexp"
	"strings"
)

const (
	maxSeeds          = 3
	minTitleSeedChars = 8
	minSentenceChars  = 40
	longSentenceChars = 60
	sentenceCapChars  = 200
	leadTextChars     = 180
)

var sentenceSplitter = regexp.MustCompile(`[.!?]\s+`)

// BuildSeeds derives up to three search phrases from an article. Titles
// tend to carry the most discriminating keywords, so the normalized title
// leads, followed by the full title when the site name was stripped, then
// a representative sentence from the body. A URL-only input falls back to
// the URL itself, and empty input gets a generic recent-news phrase so
// the pipeline always has something to retrieve with.
func BuildSeeds(title, text, url string) []string {
	var seeds []string

	titleMain := normalizeTitle(title)
	if len([]rune(titleMain)) >= minTitleSeedChars {
		seeds = append(seeds, titleMain)
	}
	fullTitle := strings.TrimSpace(title)
	if fullTitle != titleMain && len([]rune(fullTitle)) >= minTitleSeedChars {
		seeds = append(seeds, fullTitle)
	}
	if sentence := pickSearchSentence(text); len([]rune(sentence)) >= minSentenceChars {
		seeds = append(seeds, sentence)
	}
	if len(seeds) == 0 && strings.TrimSpace(url) != "" {
		seeds = append(seeds, strings.TrimSpace(url))
	}
	if len(seeds) == 0 {
		seeds = append(seeds, "noticia recente")
	}
	return uniqueSeeds(seeds, maxSeeds)
}

// normalizeTitle trims site-name suffixes that publishers append after a
// dash or pipe separator ("Headline - Portal XYZ").
func normalizeTitle(title string) string {
	clean := strings.TrimSpace(title)
	if idx := strings.Index(clean, " - "); idx >= 0 {
		clean = clean[:idx]
	}
	if idx := strings.Index(clean, " | "); idx >= 0 {
		clean = clean[:idx]
	}
	return strings.TrimSpace(clean)
}

// pickSearchSentence selects the first substantial sentence of the body,
// falling back to the leading text when no sentence is long enough.
func pickSearchSentence(text string) string {
	clean := strings.TrimSpace(collapseSpaces(text))
	if clean == "" {
		return ""
	}
	var picked string
	for _, sentence := range sentenceSplitter.Split(clean, -1) {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) >= longSentenceChars {
			picked = sentence
			break
		}
	}
	if picked == "" {
		picked = truncateRunes(clean, leadTextChars)
	}
	return truncateRunes(picked, sentenceCapChars)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// uniqueSeeds deduplicates case-insensitively while preserving order
func uniqueSeeds(seeds []string, max int) []string {
	seen := make(map[string]struct{}, len(seeds))
	out := make([]string, 0, max)
	for _, seed := range seeds {
		key := strings.ToLower(strings.TrimSpace(seed))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(seed))
		if len(out) == max {
			break
		}
	}
	return out
}
