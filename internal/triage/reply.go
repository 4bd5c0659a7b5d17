package triage

// CrisisMessage is returned verbatim for every crisis result.
const CrisisMessage = "💙 I’m really sorry that you're feeling this way. If you are in immediate danger, please call your local emergency number right now.\n" +
	"You are not alone — reaching out to a trusted friend, family member, or a mental health professional could really help.\n" +
	"I’m here to listen. Would you like me to share some calming exercises or helpline resources?"

const (
	PositiveReply = "That's wonderful to hear! 🌸 If you’d like, we can talk more."
	NegativeReply = "I'm sorry you're going through this. 💙 Would you like to try a short breathing exercise or a PHQ-9 check?"
	NeutralReply  = "Thanks for opening up. I'm here to listen — share whatever’s on your mind."
)

// SelectReply maps a result to its fixed reply. Unknown labels get the
// neutral reply.
func SelectReply(result SentimentResult) string {
	if result.IsCrisis {
		return CrisisMessage
	}
	switch result.Label {
	case LabelPositive:
		return PositiveReply
	case LabelNegative:
		return NegativeReply
	default:
		return NeutralReply
	}
}
