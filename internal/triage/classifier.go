package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/mindsync/internal/lexicon"
)

// MaxExternalInput is the number of characters (runes) of a message passed to
// an external classifier. Longer input is truncated.
const MaxExternalInput = 512

// ExternalResult is what an external classifier reports for one message.
// An empty Label means the classifier returned none; HasScore is false when
// no score was returned.
type ExternalResult struct {
	Label    string
	Score    float64
	HasScore bool
}

// ExternalClassifier is an optional sentiment capability, typically backed by
// an LLM. Any error from Classify makes the Classifier use the fallback scorer.
type ExternalClassifier interface {
	Available(ctx context.Context) bool
	Classify(ctx context.Context, text string) (ExternalResult, error)
}

// Classifier runs crisis detection, then the external classifier if one is
// configured and available, then the keyword fallback.
type Classifier struct {
	detector *CrisisDetector
	fallback *FallbackScorer
	external ExternalClassifier
	logger   *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithExternal sets the external classifier. A nil value leaves the
// Classifier on the fallback path.
func WithExternal(ext ExternalClassifier) Option {
	return func(c *Classifier) { c.external = ext }
}

// WithLogger sets the logger used to record swallowed external failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier builds a Classifier over lex. A nil lexicon uses the built-in lists.
func NewClassifier(lex *lexicon.Lexicon, opts ...Option) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	c := &Classifier{
		detector: NewCrisisDetector(lex),
		fallback: NewFallbackScorer(lex),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasExternal reports whether an external classifier is configured.
func (c *Classifier) HasExternal() bool {
	return c.external != nil
}

// DetectCrisis reports whether text contains a crisis phrase.
func (c *Classifier) DetectCrisis(text string) bool {
	return c.detector.Detect(text)
}

// Classify never fails: crisis text always yields a crisis result, and any
// problem with the external classifier degrades to the fallback scorer.
func (c *Classifier) Classify(ctx context.Context, text string) SentimentResult {
	if c.detector.Detect(text) {
		return crisisResult()
	}

	if res, ok := c.classifyExternal(ctx, text); ok {
		return res
	}

	return c.fallback.Score(text)
}

func (c *Classifier) classifyExternal(ctx context.Context, text string) (result SentimentResult, ok bool) {
	if c.external == nil {
		return SentimentResult{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("external classifier panicked", "panic", fmt.Sprint(r))
			result, ok = SentimentResult{}, false
		}
	}()

	if !c.external.Available(ctx) {
		c.logger.Debug("external classifier unavailable, using fallback")
		return SentimentResult{}, false
	}

	ext, err := c.external.Classify(ctx, Truncate(text, MaxExternalInput))
	if err != nil {
		c.logger.Debug("external classifier failed, using fallback", "error", err)
		return SentimentResult{}, false
	}

	return fromExternal(ext), true
}

// fromExternal maps an external answer onto a non-crisis result. A CRISIS
// label from outside is downgraded to NEGATIVE; only the detector may raise
// a crisis.
func fromExternal(ext ExternalResult) SentimentResult {
	label := Label(strings.ToUpper(strings.TrimSpace(ext.Label)))
	switch label {
	case "":
		label = LabelNeutral
	case LabelCrisis:
		label = LabelNegative
	}

	score := 0.0
	if ext.HasScore {
		score = clamp01(ext.Score)
	}

	return SentimentResult{Label: label, Score: score, Source: SourceExternal}
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
