package triage

import (
	"strings"

	"github.com/alexanderramin/mindsync/internal/lexicon"
)

// CrisisDetector flags text containing any crisis phrase.
// Matching is substring containment on lower-cased text with no word
// boundaries, so "die" also fires inside longer words.
type CrisisDetector struct {
	phrases []string
}

// NewCrisisDetector builds a detector over the lexicon's crisis phrases.
func NewCrisisDetector(lex *lexicon.Lexicon) *CrisisDetector {
	return &CrisisDetector{phrases: lex.Crisis()}
}

// Detect reports whether text contains a crisis phrase.
func (d *CrisisDetector) Detect(text string) bool {
	return containsAny(strings.ToLower(text), d.phrases)
}

func containsAny(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
