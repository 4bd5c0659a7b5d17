package triage

import (
	"context"

	"github.com/alexanderramin/mindsync/internal/lexicon"
)

var defaultClassifier = NewClassifier(lexicon.Default())

// DetectCrisis checks text against the built-in crisis phrases.
func DetectCrisis(text string) bool {
	return defaultClassifier.DetectCrisis(text)
}

// ScoreFallback scores text with the built-in word lists.
func ScoreFallback(text string) SentimentResult {
	return defaultClassifier.fallback.Score(text)
}

// Classify classifies text with the built-in lexicon and no external classifier.
func Classify(ctx context.Context, text string) SentimentResult {
	return defaultClassifier.Classify(ctx, text)
}
