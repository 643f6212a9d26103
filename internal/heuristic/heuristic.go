// Package heuristic scores raw article text for sensationalism signals.
// Both scorers are pure functions: same input, same output, no I/O.
package heuristic

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// SensationalTerms is the fixed clickbait vocabulary, stored without
// diacritics. Matching is diacritic- and case-insensitive.
var SensationalTerms = []string{
	"urgente",
	"bomba",
	"chocante",
	"voce nao vai acreditar",
	"revelado",
	"segredo",
	"imperdivel",
	"midia nao mostra",
	"compartilhe",
	"vai viralizar",
}

// SuspiciousTLDs flags top-level domains overrepresented in low-quality sites
var SuspiciousTLDs = []string{"xyz", "top", "click", "info", "buzz", "work", "gq", "tk", "ml", "ga", "cf"}

var promisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cura milagrosa`),
	regexp.MustCompile(`(?i)100%\s*garantido`),
	regexp.MustCompile(`(?i)sem\s*prova`),
	regexp.MustCompile(`(?i)cientistas\s+confirmam`),
}

var (
	exclamationRuns = regexp.MustCompile(`!{2,}`)
	questionRuns    = regexp.MustCompile(`\?{2,}`)
	emojiRunes      = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]`)
)

// ServerScoreCap bounds the server-side heuristic sub-score
const ServerScoreCap = 30

// shortTextChars is the body length below which an article looks truncated
const shortTextChars = 400

// Input is the raw material for scoring
type Input struct {
	Title string
	Text  string
	URL   string
}

// Score is the server-side heuristic: a bounded sub-score feeding verdict
// composition when no evidence exists. Capped at ServerScoreCap.
func Score(in Input) model.HeuristicSignal {
	combined := strings.TrimSpace(in.Title + " " + in.Text)
	score := 0
	var reasons []string

	if n := len(exclamationRuns.FindAllString(combined, -1)); n > 0 {
		score += minInt(10, n*4)
		reasons = append(reasons, "Repeated exclamation marks (!!!).")
	}
	if n := len(questionRuns.FindAllString(combined, -1)); n > 0 {
		score += minInt(8, n*3)
		reasons = append(reasons, "Repeated question marks (???).")
	}

	if utf8.RuneCountInString(in.Title) >= 10 && upperRatio(in.Title) > 0.6 {
		score += 8
		reasons = append(reasons, "Title written mostly in ALL CAPS.")
	}

	if hits := countSensationalTerms(combined); hits > 0 {
		score += minInt(12, hits*5)
		reasons = append(reasons, "Sensationalist wording in the text.")
	}

	if in.Text != "" && utf8.RuneCountInString(in.Text) < shortTextChars {
		score += 6
		reasons = append(reasons, "Text too short for a complete news story.")
	}

	if parsed, err := url.Parse(in.URL); err == nil {
		if parsed.Scheme != "" && parsed.Scheme != "https" {
			score += 4
			reasons = append(reasons, "Page served without HTTPS.")
		}
		if hasSuspiciousTLD(parsed.Hostname()) {
			score += 5
			reasons = append(reasons, "Domain with an unusual TLD.")
		}
	}

	return model.HeuristicSignal{Score: minInt(ServerScoreCap, score), Reasons: reasons}
}

// PageResult is the output of the interactive page scorer
type PageResult struct {
	Score      int               `json:"score"`
	Reasons    []string          `json:"reasons"`
	Highlights []model.Highlight `json:"highlights"`
}

// PageScore is the client-side variant used for live-page display: a wider
// 0-100 scale, extra signal families, and highlight patterns for rendering.
// Sensitivity is "low", "medium" or "high" and scales the final score.
func PageScore(in Input, sensitivity string) PageResult {
	combined := strings.TrimSpace(in.Title + " " + in.Text)
	score := 0
	var reasons []string
	var highlights []model.Highlight

	if n := len(exclamationRuns.FindAllString(combined, -1)); n > 0 {
		score += minInt(20, n*5)
		reasons = append(reasons, "Repeated exclamation marks (!!!).")
		highlights = append(highlights, model.Highlight{Type: "regex", Value: `!{2,}`, Flags: "g"})
	}
	if n := len(questionRuns.FindAllString(combined, -1)); n > 0 {
		score += minInt(15, n*4)
		reasons = append(reasons, "Repeated question marks (???).")
		highlights = append(highlights, model.Highlight{Type: "regex", Value: `\?{2,}`, Flags: "g"})
	}

	if utf8.RuneCountInString(in.Title) >= 8 && upperRatio(in.Title) > 0.6 {
		score += 15
		reasons = append(reasons, "Title written mostly in ALL CAPS.")
		highlights = append(highlights, model.Highlight{Type: "term", Value: in.Title})
	}

	normalized := strings.ToUpper(removeDiacritics(combined))
	hits := 0
	for _, term := range SensationalTerms {
		if strings.Contains(normalized, strings.ToUpper(term)) {
			hits++
			highlights = append(highlights, model.Highlight{Type: "regex", Value: accentPattern(term), Flags: "gi"})
		}
	}
	if hits > 0 {
		score += minInt(25, hits*7)
		reasons = append(reasons, "Sensationalist wording in the text.")
	}

	promiseHits := 0
	for _, re := range promisePatterns {
		if re.MatchString(combined) {
			promiseHits++
			highlights = append(highlights, model.Highlight{Type: "regex", Value: strings.TrimPrefix(re.String(), "(?i)"), Flags: "gi"})
		}
	}
	if promiseHits > 0 {
		score += minInt(20, promiseHits*6)
		reasons = append(reasons, "Strong promises without a clear source.")
	}

	if n := len(emojiRunes.FindAllString(combined, -1)); n >= 3 {
		score += minInt(10, n*2)
		reasons = append(reasons, "Heavy emoji use in the text.")
	}

	if l := utf8.RuneCountInString(in.Text); l > 0 && l < shortTextChars {
		score += 12
		reasons = append(reasons, "Text too short for a complete news story.")
	}

	if parsed, err := url.Parse(in.URL); err == nil {
		if parsed.Scheme != "" && parsed.Scheme != "https" {
			score += 5
			reasons = append(reasons, "Page served without HTTPS.")
		}
		if hasSuspiciousTLD(parsed.Hostname()) {
			score += 8
			reasons = append(reasons, "Domain with an unusual TLD.")
		}
	}

	factor := 1.0
	switch sensitivity {
	case "high":
		factor = 1.3
	case "low":
		factor = 0.7
	}
	final := int(float64(score)*factor + 0.5)

	return PageResult{Score: minInt(100, final), Reasons: reasons, Highlights: highlights}
}

func countSensationalTerms(text string) int {
	normalized := strings.ToUpper(removeDiacritics(text))
	hits := 0
	for _, term := range SensationalTerms {
		if strings.Contains(normalized, strings.ToUpper(term)) {
			hits++
		}
	}
	return hits
}

func upperRatio(title string) float64 {
	letters, upper := 0, 0
	for _, r := range title {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func removeDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// accentClasses expands a base letter to its accented variants for
// highlight regexes rendered in the page context.
var accentClasses = map[rune]string{
	'A': "AÁÀÃÂ",
	'E': "EÉÈÊ",
	'I': "IÍÌÎ",
	'O': "OÓÒÕÔ",
	'U': "UÚÙÛ",
	'C': "CÇ",
}

func accentPattern(term string) string {
	base := strings.ToUpper(removeDiacritics(term))
	var pattern strings.Builder
	for _, ch := range base {
		if ch == ' ' {
			pattern.WriteString(`\s+`)
			continue
		}
		if class, ok := accentClasses[ch]; ok {
			pattern.WriteString(fmt.Sprintf("[%s%s]", class, strings.ToLower(class)))
			continue
		}
		pattern.WriteRune(ch)
	}
	return pattern.String()
}

func hasSuspiciousTLD(host string) bool {
	parts := strings.Split(host, ".")
	tld := strings.ToLower(parts[len(parts)-1])
	for _, s := range SuspiciousTLDs {
		if tld == s {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
