package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/screening"
)

// AnswerPrompt is printed after each question.
const AnswerPrompt = "Your answer (0-3): "

// FormatQuestion renders "i. question" with a progress bar above it.
func FormatQuestion(index int, question string) string {
	return fmt.Sprintf("%s\n%s %s\n",
		RenderProgress(index-1, screening.NumQuestions, screening.NumQuestions),
		Bold(fmt.Sprintf("%d.", index)),
		question,
	)
}

// FormatScreeningResult renders the total, the interpretation and the disclaimer.
func FormatScreeningResult(res screening.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PHQ-9 total score: %s\n", Bold(fmt.Sprintf("%d", res.Total)))
	fmt.Fprintf(&b, "Interpretation: %s\n", BandStyle(res.Band).Render(string(res.Band)))
	b.WriteString("\n")
	b.WriteString(Dim(res.Disclaimer))
	b.WriteString("\n")
	return RenderBox("PHQ-9 result", strings.TrimRight(b.String(), "\n"))
}

// FormatScreeningHistory renders stored results as a table, newest first.
func FormatScreeningHistory(records []*domain.ScreeningRecord) string {
	if len(records) == 0 {
		return Dim("No screenings saved yet.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			TruncID(r.ID),
			HumanDate(r.CompletedAt),
			fmt.Sprintf("%d", r.Total),
			BandStyle(screening.Band(r.Band)).Render(r.Band),
			Dim(string(r.Channel)),
		})
	}
	return Header("Screening history") + "\n" +
		RenderTable([]string{"ID", "DATE", "TOTAL", "BAND", "VIA"}, rows)
}
