package screening

import (
	"errors"
	"fmt"
)

// MaxTotal is the highest possible PHQ-9 total.
const MaxTotal = NumQuestions * MaxAnswer

// ErrScoreOutOfRange is returned for a total outside [0, MaxTotal].
var ErrScoreOutOfRange = errors.New("score out of range")

// Band is a PHQ-9 severity band.
type Band string

const (
	BandMinimal          Band = "Minimal or none (0-4)"
	BandMild             Band = "Mild (5-9)"
	BandModerate         Band = "Moderate (10-14)"
	BandModeratelySevere Band = "Moderately severe (15-19)"
	BandSevere           Band = "Severe (20-27)"
)

type bandRange struct {
	band     Band
	min, max int
}

// Contiguous, non-overlapping and covering 0..MaxTotal.
var bands = []bandRange{
	{BandMinimal, 0, 4},
	{BandMild, 5, 9},
	{BandModerate, 10, 14},
	{BandModeratelySevere, 15, 19},
	{BandSevere, 20, MaxTotal},
}

// ComputeSeverity maps a total score to its band.
func ComputeSeverity(total int) (Band, error) {
	for _, b := range bands {
		if total >= b.min && total <= b.max {
			return b.band, nil
		}
	}
	return "", fmt.Errorf("total %d: %w", total, ErrScoreOutOfRange)
}

// Rank orders bands from 0 (minimal) to 4 (severe). Unknown bands rank -1.
func (b Band) Rank() int {
	for i, r := range bands {
		if r.band == b {
			return i
		}
	}
	return -1
}

// Bands returns every band in ascending order.
func Bands() []Band {
	out := make([]Band, len(bands))
	for i, b := range bands {
		out[i] = b.band
	}
	return out
}
