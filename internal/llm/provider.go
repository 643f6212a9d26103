// Package llm implements the optional verdict judge. A configured provider
// reviews the retrieved evidence and may refine the verdict; the pipeline
// works unchanged when no provider is configured or a judge call fails.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// Provider defines the interface for LLM judge providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Judge reviews an article against its retrieved evidence
	Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// JudgeRequest contains the input for one judge call
type JudgeRequest struct {
	// Article is the content under verification
	Article model.Article

	// Sources is the STRICT allowlist of evidence the judge can cite.
	// The judge cannot reference any URL outside this list.
	Sources []model.Source

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// JudgeResponse is the parsed judge output
type JudgeResponse struct {
	Verdict    model.Verdict
	Confidence float64
	Reasons    []string
	Claims     []model.Claim

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// judgePayload is the JSON shape the judge is instructed to emit
type judgePayload struct {
	Verdict    string        `json:"verdict"`
	Confidence float64       `json:"confidence"`
	Reasons    []string      `json:"reasons"`
	Claims     []model.Claim `json:"claims"`
}

var allowedVerdicts = map[model.Verdict]bool{
	model.VerdictConfirmedMultiple: true,
	model.VerdictConfirmed:         true,
	model.VerdictConfirmedTrusted:  true,
	model.VerdictLikelyTrue:        true,
	model.VerdictMixed:             true,
	model.VerdictCheckRecommended:  true,
	model.VerdictNotVerifiable:     true,
}

// buildJudgePrompt constructs the judge prompt with strict evidence mode
func buildJudgePrompt(article model.Article, sources []model.Source) string {
	var sb strings.Builder

	sb.WriteString(`You are reviewing a news article against retrieved evidence. You evaluate how well the story is supported - you NEVER assert absolute truth.

CRITICAL RULES:
1. You may ONLY cite URLs from this allowed list:
`)
	if len(sources) == 0 {
		sb.WriteString("(No evidence sources available)\n")
	}
	for _, src := range sources {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", src.URL, src.Domain))
		if src.Snippet != "" {
			sb.WriteString(fmt.Sprintf("  excerpt: %s\n", src.Snippet))
		}
	}

	sb.WriteString(fmt.Sprintf(`
2. DO NOT infer, speculate, or cite external sources beyond this list.
3. If the evidence is insufficient, say so via the verdict, never invent support.

Article title: %s
Article URL: %s
Article text (may be truncated):
%s

Respond with ONLY a JSON object, no prose around it:
{"verdict": one of ["confirmed-by-multiple","confirmed","confirmed-single-trusted","likely-true","mixed-evidence","verification-recommended","not-verifiable"],
 "confidence": number between 0 and 1,
 "reasons": up to 4 short strings,
 "claims": up to 5 objects {"text": claim, "status": "supported"|"unsupported"|"unclear"}}
`, article.Title, article.URL, article.Text))

	return sb.String()
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// parseJudgeResponse extracts and validates the JSON payload from raw model
// output. Models occasionally wrap the object in prose or code fences, so
// the first braced block is taken.
func parseJudgeResponse(raw string, sources []model.Source) (*JudgeResponse, error) {
	blob := jsonBlock.FindString(raw)
	if blob == "" {
		return nil, fmt.Errorf("no JSON object in judge output")
	}

	var payload judgePayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal judge output: %w", err)
	}

	verdict := model.Verdict(payload.Verdict)
	if !allowedVerdicts[verdict] {
		return nil, fmt.Errorf("judge returned unknown verdict %q", payload.Verdict)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return nil, fmt.Errorf("judge confidence %v out of range", payload.Confidence)
	}

	// Strict evidence mode: any URL mentioned anywhere in the output must
	// come from the allowed source list.
	allowed := make(map[string]bool, len(sources))
	for _, src := range sources {
		allowed[src.URL] = true
	}
	for _, cited := range extractURLs(raw) {
		if !allowed[cited] {
			return nil, fmt.Errorf("judge cited disallowed URL: %s", cited)
		}
	}

	if len(payload.Reasons) > 4 {
		payload.Reasons = payload.Reasons[:4]
	}
	if len(payload.Claims) > 5 {
		payload.Claims = payload.Claims[:5]
	}

	return &JudgeResponse{
		Verdict:    verdict,
		Confidence: payload.Confidence,
		Reasons:    payload.Reasons,
		Claims:     payload.Claims,
	}, nil
}

// MergeResult folds a judge response into a pipeline result, upgrading the
// mode. The evidence sources stay untouched; the judge refines only the
// interpretation.
func MergeResult(base *model.Result, jr *JudgeResponse) *model.Result {
	merged := *base
	merged.Mode = model.ModeVerify
	merged.Verdict = jr.Verdict
	merged.Confidence = model.Confidence(jr.Confidence)
	if len(jr.Reasons) > 0 {
		merged.Reasons = jr.Reasons
	}
	if len(jr.Claims) > 0 {
		merged.Claims = jr.Claims
	}
	return &merged
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)"]+`)

// extractURLs extracts all URLs from text
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}
