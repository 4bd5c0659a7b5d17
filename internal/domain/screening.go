package domain

import "time"

// ScreeningRecord is a completed PHQ-9 kept in history. Abandoned
// screenings are never stored.
type ScreeningRecord struct {
	ID          string
	Channel     Channel
	Total       int
	Band        string
	Answers     []int
	CompletedAt time.Time
}
