// Package display renders pdst output: candidate lists, result boxes,
// the welcome banner and help text.
package display

import "github.com/charmbracelet/lipgloss"

// Tone selects the border color of a result box.
type Tone int

const (
	ToneSuccess Tone = iota
	ToneAdvisory
	ToneFailure
)

var (
	successColor = lipgloss.Color("#22C55E") // Green
	advisorColor = lipgloss.Color("#F59E0B") // Amber
	failureColor = lipgloss.Color("#EF4444") // Red
	accentColor  = lipgloss.Color("#7C3AED") // Violet
	mutedColor   = lipgloss.Color("#6C7086")
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1).
	Margin(1)

var indexStyle = lipgloss.NewStyle().
	Foreground(accentColor).
	Bold(true)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(accentColor)

var mutedStyle = lipgloss.NewStyle().
	Foreground(mutedColor)

var errorStyle = lipgloss.NewStyle().
	Foreground(failureColor).
	Bold(true)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(successColor).
	Foreground(failureColor).
	Padding(1).
	Margin(1)

func toneColor(t Tone) lipgloss.Color {
	switch t {
	case ToneAdvisory:
		return advisorColor
	case ToneFailure:
		return failureColor
	default:
		return successColor
	}
}
