package search

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rickdevqrz/veredicto/internal/trust"
)

// blockedExtensions lists path suffixes that cannot carry an article.
// Candidates ending in one of these are dropped before any fetch.
var blockedExtensions = map[string]bool{
	"pdf": true, "xml": true, "rss": true, "atom": true, "json": true,
	"txt": true, "csv": true, "zip": true, "rar": true, "7z": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true,
	"pptx": true, "mp3": true, "mp4": true, "avi": true, "mov": true,
	"wmv": true, "m4a": true, "wav": true, "jpg": true, "jpeg": true,
	"png": true, "gif": true, "svg": true, "webp": true, "css": true,
	"js": true, "map": true,
}

var extensionPattern = regexp.MustCompile(`\.([a-z0-9]{1,5})$`)

func hasBlockedExtension(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	match := extensionPattern.FindStringSubmatch(strings.ToLower(parsed.Path))
	if match == nil {
		return false
	}
	return blockedExtensions[match[1]]
}

func hasBlockedQuery(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "format=pdf") || strings.Contains(lower, "output=pdf")
}

// IsLikelyNewsURL reports whether a candidate URL is worth fetching as an
// article: http(s), no document/media extension, no PDF query hint, and an
// allowlisted domain.
func IsLikelyNewsURL(rawURL string, classifier *trust.Classifier) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if hasBlockedExtension(rawURL) || hasBlockedQuery(rawURL) {
		return false
	}
	return classifier.IsAllowlisted(trust.NormalizeDomain(parsed.Hostname()))
}
