package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in word lists. Entries are lower-case and matched as substrings.
var (
	defaultPositive = []string{
		"happy", "good", "great", "fine", "relieved", "better", "okay", "joy", "love",
	}

	defaultNegative = []string{
		"sad", "depressed", "anxious", "anxiety", "stressed", "angry", "hurt",
		"lonely", "tired", "hopeless",
	}

	// "die" also matches inside words like "diet".
	defaultCrisis = []string{
		"suicide", "kill myself", "end my life", "want to die", "die", "kill me",
		"hurt myself", "self-harm", "cut myself", "hang myself", "i can't go on",
		"i am done", "i want to die",
	}
)

// Lexicon holds the positive, negative and crisis word lists used by triage.
// A Lexicon is never mutated after construction and is safe for concurrent use.
type Lexicon struct {
	positive []string
	negative []string
	crisis   []string
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return New(defaultPositive, defaultNegative, defaultCrisis)
}

// New builds a Lexicon from the given lists. Entries are trimmed, lower-cased
// and de-duplicated; blank entries are dropped. An empty crisis list is
// replaced by the built-in phrases.
func New(positive, negative, crisis []string) *Lexicon {
	return &Lexicon{
		positive: normalize(positive),
		negative: normalize(negative),
		crisis:   orDefault(normalize(crisis), defaultCrisis),
	}
}

// Positive returns a copy of the positive word list.
func (l *Lexicon) Positive() []string { return clone(l.positive) }

// Negative returns a copy of the negative word list.
func (l *Lexicon) Negative() []string { return clone(l.negative) }

// Crisis returns a copy of the crisis phrase list.
func (l *Lexicon) Crisis() []string { return clone(l.crisis) }

// file is the on-disk YAML shape of a lexicon override.
type file struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Crisis   []string `yaml:"crisis"`
}

// Load reads a YAML lexicon file. Any list that is missing or empty after
// normalization falls back to the built-in list, so the crisis phrases can
// never be switched off by configuration.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML lexicon document. See Load for fallback rules.
func Parse(data []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding lexicon: %w", err)
	}

	return New(
		orDefault(normalize(f.Positive), defaultPositive),
		orDefault(normalize(f.Negative), defaultNegative),
		f.Crisis,
	), nil
}

func orDefault(list, def []string) []string {
	if len(list) == 0 {
		return normalize(def)
	}
	return list
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func clone(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	return out
}
