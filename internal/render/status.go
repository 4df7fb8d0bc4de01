package render

import (
	"fmt"
	"strconv"

	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var statusHeaders = []string{"WORKER", "STATUS", "LEVEL", "PART", "INI", "END"}

// statusRow formats one sample. Only a worker that is processing shows the
// coordinates of its task.
func statusRow(s heartbeat.Sample) []string {
	if s.Idle() || s.State != tasktable.Running {
		status := "-"
		if !s.Idle() {
			status = s.State.String()
		}
		return []string{strconv.Itoa(s.Worker), status, "-", "-", "-", "-"}
	}
	return []string{
		strconv.Itoa(s.Worker),
		s.State.String(),
		strconv.Itoa(s.Level),
		strconv.Itoa(s.Index),
		strconv.Itoa(s.Start),
		strconv.Itoa(s.End),
	}
}

// StatusTable renders the samples of one round in worker order.
func StatusTable(samples []heartbeat.Sample) string {
	rows := make([][]string, len(samples))
	for i, s := range samples {
		rows[i] = statusRow(s)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(statusHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Header
			}
			if col == 1 && row >= 0 && row < len(samples) && !samples[row].Idle() {
				return Cell.Foreground(stateColor(samples[row].State))
			}
			return Cell
		})
	return t.Render()
}

// Summary returns the one-line task count for a round.
func Summary(round int, c tasktable.Counts) string {
	return fmt.Sprintf("round %d: %d/%d done, %d running, %d queued, %d pending",
		round, c.Done, c.Total, c.Running, c.Dispatched, c.Pending)
}
