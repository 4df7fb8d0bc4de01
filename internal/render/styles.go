package render

import (
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor = lipgloss.Color("#A78BFA") // Purple
	MutedColor   = lipgloss.Color("#9CA3AF") // Gray
	BorderColor  = lipgloss.Color("#6B7280") // Gray

	StatusPending    = lipgloss.Color("#9CA3AF") // Gray
	StatusDispatched = lipgloss.Color("#60A5FA") // Blue
	StatusRunning    = lipgloss.Color("#10B981") // Green
	StatusDone       = lipgloss.Color("#A78BFA") // Purple

	Title  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	Muted  = lipgloss.NewStyle().Foreground(MutedColor)
	Bar    = lipgloss.NewStyle().Foreground(PrimaryColor)
	Header = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Padding(0, 1)
	Cell   = lipgloss.NewStyle().Padding(0, 1)
)

// stateColor returns the color used for a task state.
func stateColor(s tasktable.State) lipgloss.Color {
	switch s {
	case tasktable.Dispatched:
		return StatusDispatched
	case tasktable.Running:
		return StatusRunning
	case tasktable.Done:
		return StatusDone
	default:
		return StatusPending
	}
}
