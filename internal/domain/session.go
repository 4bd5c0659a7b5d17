package domain

import "time"

// Channel records where a chat session was opened.
type Channel string

const (
	ChannelCLI  Channel = "cli"
	ChannelHTTP Channel = "http"
)

// ChatSession groups the turns of one conversation.
type ChatSession struct {
	ID        string
	Channel   Channel
	CreatedAt time.Time
	UpdatedAt time.Time
}
