package verify

import (
	"fmt"
	"math"

	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/trust"
)

const maxReasons = 4

// Composition is the verdict produced from the retrieved evidence
type Composition struct {
	Verdict    model.Verdict
	Confidence float64
	Score      int
	Reasons    []string
}

// Compose maps evidence volume and trust mix to a verdict. More
// corroborating sources and more diverse editorial groups raise
// confidence and lower the risk score; with no evidence the text
// heuristic decides, unless the fallback is disabled, in which case the
// result stays a conservative not-verifiable.
func Compose(sources []model.Source, stats trust.Stats, heur model.HeuristicSignal, allowHeuristicFallback bool) Composition {
	count := len(sources)
	diverse := stats.GroupCount >= 2
	highTrust := stats.HasHighTrust

	var (
		verdict    model.Verdict
		confidence float64
		base       int
		reasons    []string
	)

	switch {
	case count >= 3 && (highTrust || diverse):
		verdict = model.VerdictConfirmedMultiple
		confidence = 0.88
		base = 12
		if highTrust {
			reasons = append(reasons, "Includes an international agency or official body.")
		}
		if diverse {
			reasons = append(reasons, "Sources with different editorial lines.")
		}
	case count >= 3:
		verdict = model.VerdictConfirmedMultiple
		confidence = 0.82
		base = 16
		reasons = append(reasons, fmt.Sprintf("Found %d trusted sources corroborating the story.", count))
	case count == 2 && highTrust:
		verdict = model.VerdictConfirmed
		confidence = 0.82
		base = 16
		reasons = append(reasons, "Includes an international agency or official body.")
	case count == 2 && diverse:
		verdict = model.VerdictConfirmed
		confidence = 0.76
		base = 20
		reasons = append(reasons, "Sources with different editorial lines.")
	case count == 2:
		verdict = model.VerdictConfirmed
		confidence = 0.70
		base = 26
		reasons = append(reasons, "2 trusted sources support the content.")
	case count == 1 && highTrust:
		verdict = model.VerdictConfirmedTrusted
		confidence = 0.76
		base = 18
		reasons = append(reasons, "High-trust source (agency, official body or fact-checker).")
	case count == 1:
		verdict = model.VerdictLikelyTrue
		confidence = 0.62
		base = 28
		reasons = append(reasons, "1 trusted source found; the story may be recent, keep following.")
	case !allowHeuristicFallback:
		verdict = model.VerdictNotVerifiable
		confidence = 0.40
		base = 45
		reasons = append(reasons, "No trusted source found for this topic.")
	default:
		switch {
		case heur.Score <= 5:
			verdict = model.VerdictLikelyTrue
			confidence = 0.60
			base = 18
			reasons = append(reasons, "Neutral language with little emotional charge.")
		case heur.Score <= 12:
			verdict = model.VerdictLikelyTrue
			confidence = 0.56
			base = 26
			reasons = append(reasons, "Few signs of exaggeration; the text reads consistently.")
		case heur.Score <= 20:
			verdict = model.VerdictMixed
			confidence = 0.50
			base = 42
			reasons = append(reasons, "Mixed signals in the text; read with caution.")
		default:
			verdict = model.VerdictCheckRecommended
			confidence = 0.52
			base = 58
			reasons = append(reasons, "Signs of exaggeration and lack of clarity; confirm with other sources.")
		}
	}

	// Blend in the leading heuristic observation when evidence alone left
	// the explanation thin
	if allowHeuristicFallback && len(heur.Reasons) > 0 && len(reasons) < 2 {
		reasons = append(reasons, heur.Reasons[0])
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return Composition{
		Verdict:    verdict,
		Confidence: confidence,
		Score:      finalScore(base, heur.Score, allowHeuristicFallback),
		Reasons:    reasons,
	}
}

// finalScore nudges the evidence-derived base by a fifth of the heuristic
// score, clamped to 0..100
func finalScore(base, heurScore int, allowHeuristicFallback bool) int {
	score := float64(base)
	if allowHeuristicFallback {
		score += float64(heurScore) * 0.2
	}
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
