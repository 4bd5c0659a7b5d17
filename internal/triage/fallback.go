package triage

import (
	"strings"

	"github.com/alexanderramin/mindsync/internal/lexicon"
)

// Fixed confidences reported by the keyword scorer. They are constants, not
// a calibrated probability.
const (
	FallbackPolarScore   = 0.8
	FallbackNeutralScore = 0.6
)

// FallbackScorer is the keyword heuristic used when no external classifier
// answers. It never reports a crisis.
type FallbackScorer struct {
	positive []string
	negative []string
}

// NewFallbackScorer builds a scorer over the lexicon's positive and negative words.
func NewFallbackScorer(lex *lexicon.Lexicon) *FallbackScorer {
	return &FallbackScorer{
		positive: lex.Positive(),
		negative: lex.Negative(),
	}
}

// Score counts how many distinct positive and negative lexicon entries occur
// in text and picks the larger side. Ties, including no matches, are neutral.
func (s *FallbackScorer) Score(text string) SentimentResult {
	lowered := strings.ToLower(text)
	pos := countPresent(lowered, s.positive)
	neg := countPresent(lowered, s.negative)

	switch {
	case pos > neg:
		return SentimentResult{Label: LabelPositive, Score: FallbackPolarScore, Source: SourceFallback}
	case neg > pos:
		return SentimentResult{Label: LabelNegative, Score: FallbackPolarScore, Source: SourceFallback}
	default:
		return SentimentResult{Label: LabelNeutral, Score: FallbackNeutralScore, Source: SourceFallback}
	}
}

// countPresent counts entries found at least once; repeats of the same entry
// count once.
func countPresent(lowered string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lowered, w) {
			n++
		}
	}
	return n
}
