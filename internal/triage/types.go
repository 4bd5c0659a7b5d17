package triage

// Label is the sentiment/risk class assigned to a piece of text.
// External classifiers may produce labels outside the four constants below;
// those are carried through unchanged and treated as neutral by SelectReply.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
	LabelCrisis   Label = "CRISIS"
)

// Source records which layer of the classifier produced a result.
type Source string

const (
	SourceCrisis   Source = "crisis"
	SourceExternal Source = "external"
	SourceFallback Source = "fallback"
)

// SentimentResult is the outcome of classifying one message.
// IsCrisis is true iff Label is LabelCrisis, and Score is 1.0 in that case.
type SentimentResult struct {
	IsCrisis bool    `json:"is_crisis"`
	Label    Label   `json:"label"`
	Score    float64 `json:"score"`
	Source   Source  `json:"source"`
}

func crisisResult() SentimentResult {
	return SentimentResult{
		IsCrisis: true,
		Label:    LabelCrisis,
		Score:    1.0,
		Source:   SourceCrisis,
	}
}
