package screening

// NumQuestions is the number of PHQ-9 items.
const NumQuestions = 9

// The ninth item asks about self-harm ideation. The order below is part of
// the instrument and must not change.
var questions = [NumQuestions]string{
	"Little interest or pleasure in doing things?",
	"Feeling down, depressed, or hopeless?",
	"Trouble falling or staying asleep, or sleeping too much?",
	"Feeling tired or having little energy?",
	"Poor appetite or overeating?",
	"Feeling bad about yourself — or that you are a failure or have let yourself or your family down?",
	"Trouble concentrating on things, such as reading or watching television?",
	"Moving or speaking so slowly that other people could have noticed? Or the opposite — being so restless that you’ve been moving around a lot more?",
	"Thoughts that you would be better off dead or of hurting yourself in some way?",
}

// Inclusive answer bounds.
const (
	MinAnswer = 0
	MaxAnswer = 3
)

// AnswerOption is one point on the PHQ-9 frequency scale.
type AnswerOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var answerScale = [...]AnswerOption{
	{0, "Not at all"},
	{1, "Several days"},
	{2, "More than half the days"},
	{3, "Nearly every day"},
}

const (
	// Instructions introduces the questionnaire.
	Instructions = "PHQ-9 Screening: For each question enter 0 (Not at all), 1 (Several days), 2 (More than half the days), 3 (Nearly every day)."

	// Disclaimer accompanies every scored result.
	Disclaimer = "Note: This is not a diagnosis. It's a screening tool to help identify if further evaluation by a professional might be useful."

	// RetryPrompt is shown after an answer that is not 0-3 or an exit word.
	RetryPrompt = "Please enter a number 0, 1, 2, or 3 (or type exit)."

	// ExitMessage is shown when the user leaves mid-way.
	ExitMessage = "Exiting PHQ-9."
)

// Questions returns the nine items in order.
func Questions() []string {
	out := make([]string, NumQuestions)
	copy(out, questions[:])
	return out
}

// Question returns item i, counted from 1.
func Question(i int) (string, bool) {
	if i < 1 || i > NumQuestions {
		return "", false
	}
	return questions[i-1], true
}

// AnswerScale returns the four answer options.
func AnswerScale() []AnswerOption {
	out := make([]AnswerOption, len(answerScale))
	copy(out, answerScale[:])
	return out
}
