package cli

const (
	welcomeBanner = "🧠 Welcome to MindSync"
	navHint       = "Type 'menu' anytime to return, or 'exit' to quit."
	fallbackNote  = "Note: Sentiment model not loaded. Using simple keyword fallback."
	chatHint      = "You can type 'menu' to return, or 'exit' to quit."
	takeCareLine  = "Take care 💙 Remember, if you're in danger, contact emergency services."
	goodbyeLine   = "Goodbye - take care 💙 If you are in immediate danger, please call emergency services."
	menuRetry     = "Please choose 1, 2 or 3."
	scoringLine   = "Calculating score..."
	userPrompt    = "You: "
	savePrompt    = "Save this result to your history?"
)
