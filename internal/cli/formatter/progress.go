package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders questionnaire progress like [███░░░░░░] 3/9.
func RenderProgress(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	done = max(0, min(done, total))
	width = max(width, 2)

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %d/%d", StylePurple.Render(bar), done, total)
}
