package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one stored turn. Label, Score and IsCrisis hold the triage
// outcome of the user turn that the message belongs to.
type ChatMessage struct {
	ID        string
	SessionID string
	Role      MessageRole
	Text      string
	Label     string
	Score     float64
	IsCrisis  bool
	CreatedAt time.Time
}
