package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/mindsync/internal/screening"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LabelStyle colors a triage label.
func LabelStyle(label triage.Label) lipgloss.Style {
	switch label {
	case triage.LabelCrisis:
		return StyleRed
	case triage.LabelNegative:
		return StyleYellow
	case triage.LabelPositive:
		return StyleGreen
	default:
		return StyleBlue
	}
}

// LabelBadge renders a label as "● NEGATIVE".
func LabelBadge(label triage.Label) string {
	if label == "" {
		return StyleDim.Render("● UNKNOWN")
	}
	return LabelStyle(label).Render("● " + strings.ToUpper(string(label)))
}

// BandStyle colors a PHQ-9 band from green (minimal) to red (severe).
func BandStyle(band screening.Band) lipgloss.Style {
	switch band.Rank() {
	case 0:
		return StyleGreen
	case 1:
		return StyleBlue
	case 2:
		return StyleYellow
	case 3:
		return StyleOrange
	case 4:
		return StyleRed
	default:
		return StyleDim
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
