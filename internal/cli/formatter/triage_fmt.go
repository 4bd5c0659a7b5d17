package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mindsync/internal/triage"
)

// ReplyPrefix starts every assistant line in the console.
const ReplyPrefix = "MindSync:"

// FormatReply renders an assistant reply. Crisis replies are boxed in red.
func FormatReply(text string, crisis bool) string {
	if crisis {
		return RenderAlertBox("", text)
	}
	return StylePurple.Render(ReplyPrefix) + " " + text
}

// FormatClassification renders a one-shot classify result with its reply.
func FormatClassification(res triage.SentimentResult, reply string) string {
	var b strings.Builder
	b.WriteString(Header("Triage"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s\n",
		LabelBadge(res.Label),
		Bold(fmt.Sprintf("%.2f", res.Score)),
		Dim("via "+string(res.Source)),
	)
	b.WriteString("\n")
	b.WriteString(FormatReply(reply, res.IsCrisis))
	b.WriteString("\n")
	return b.String()
}
