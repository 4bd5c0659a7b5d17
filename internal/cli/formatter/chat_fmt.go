package formatter

import (
	"strings"

	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// FormatTranscript renders a stored conversation, one turn per line.
func FormatTranscript(sessionID string, msgs []*domain.ChatMessage) string {
	var b strings.Builder
	b.WriteString(Header("Session " + sessionID))
	b.WriteString("\n")
	if len(msgs) == 0 {
		b.WriteString(Dim("No messages yet."))
		b.WriteString("\n")
		return b.String()
	}
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleUser:
			b.WriteString(StyleBlue.Render("You:"))
			b.WriteString(" ")
			b.WriteString(m.Text)
			b.WriteString("  ")
			b.WriteString(LabelBadge(triage.Label(m.Label)))
		default:
			b.WriteString(StylePurple.Render(ReplyPrefix))
			b.WriteString(" ")
			b.WriteString(m.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSessionList renders recent chat sessions.
func FormatSessionList(sessions []*domain.ChatSession) string {
	if len(sessions) == 0 {
		return Dim("No chat sessions yet.") + "\n"
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			HumanTimestamp(s.UpdatedAt),
			Dim(string(s.Channel)),
		})
	}
	return Header("Chat sessions") + "\n" +
		RenderTable([]string{"SESSION", "LAST ACTIVE", "VIA"}, rows)
}
