package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestPlot_Shape(t *testing.T) {
	out := Plot([]int{1, 2, 3, 4}, 80, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d rows, want 4:\n%s", len(lines), out)
	}
	// The tallest column reaches the top row; the smallest only the bottom.
	if got := lipgloss.Width(lines[0]); got != 4 {
		t.Errorf("top row width = %d, want 4 (only the last column)", got)
	}
	if got := strings.Count(lines[3], fullBlock); got != 4 {
		t.Errorf("bottom row has %d blocks, want 4", got)
	}
}

func TestPlot_FitsWidth(t *testing.T) {
	data := make([]int, 1000)
	for i := range data {
		data[i] = i
	}
	for _, line := range strings.Split(Plot(data, 40, 5), "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("row width %d exceeds 40", w)
		}
	}
}

func TestPlot_EqualValuesAndEmpty(t *testing.T) {
	out := Plot([]int{7, 7, 7}, 10, 3)
	for i, line := range strings.Split(out, "\n") {
		if got := strings.Count(line, fullBlock); got != 3 {
			t.Errorf("row %d has %d blocks, want 3", i, got)
		}
	}
	if got := Plot(nil, 10, 3); !strings.Contains(got, "empty") {
		t.Errorf("Plot(nil) = %q, want an empty marker", got)
	}
}

func TestColumns(t *testing.T) {
	got := columns([]int{1, 9, 2, 3, 8, 4}, 3)
	want := []int{9, 3, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns() = %v, want %v", got, want)
		}
	}
}

func TestStatusTable(t *testing.T) {
	samples := []heartbeat.Sample{
		{Worker: 0, Level: -1, Index: -1},
		{Worker: 1, State: tasktable.Running, Level: 1, Index: 2, Start: 40, End: 60},
		{Worker: 2, State: tasktable.Done, Level: 0, Index: 3, Start: 30, End: 40},
	}
	out := StatusTable(samples)

	for _, want := range []string{"WORKER", "STATUS", "LEVEL", "PART", "INI", "END", "PROCESSING", "COMPLETED", "40", "60"} {
		if !strings.Contains(out, want) {
			t.Errorf("status table missing %q:\n%s", want, out)
		}
	}
}

func TestStatusRow(t *testing.T) {
	tests := []struct {
		name   string
		sample heartbeat.Sample
		want   []string
	}{
		{"idle", heartbeat.Sample{Worker: 3, Level: -1, Index: -1}, []string{"3", "-", "-", "-", "-", "-"}},
		{"finished", heartbeat.Sample{Worker: 1, State: tasktable.Done, Level: 0, Index: 1, End: 4}, []string{"1", "COMPLETED", "-", "-", "-", "-"}},
		{"processing", heartbeat.Sample{Worker: 0, State: tasktable.Running, Level: 2, Index: 0, Start: 0, End: 16}, []string{"0", "PROCESSING", "2", "0", "0", "16"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusRow(tt.sample)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("statusRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestText_Banners(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, 60)

	if err := r.Begin([]int{3, 1, 2}, 2, 4); err != nil {
		t.Fatal(err)
	}
	if err := r.Round(heartbeat.Frame{
		Round:   1,
		Samples: []heartbeat.Sample{{Worker: 0, Level: -1, Index: -1}},
		Data:    []int{1, 3, 2},
		Counts:  tasktable.Counts{Total: 3, Pending: 3},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.End([]int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Starting algorithm with 2 levels and 4 workers...", "round 1: 0/3 done", CompletedBanner} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Starting") > strings.Index(out, CompletedBanner) {
		t.Error("completion banner printed before start banner")
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line width %d exceeds 60: %q", w, line)
		}
	}
}

func TestViewerModel(t *testing.T) {
	quit := 0
	m := newViewerModel([]int{2, 1}, 1, 1, 40, func() { quit++ })

	if !strings.Contains(m.View(), "Starting algorithm with 1 levels and 1 workers...") {
		t.Errorf("initial view missing banner:\n%s", m.View())
	}

	next, _ := m.Update(frameMsg(heartbeat.Frame{
		Round:   2,
		Samples: []heartbeat.Sample{{Worker: 0, State: tasktable.Running, Level: 0, Index: 0, End: 2}},
		Data:    []int{2, 1},
		Counts:  tasktable.Counts{Total: 1, Running: 1},
	}))
	m = next.(viewerModel)
	if !strings.Contains(m.View(), "PROCESSING") || !strings.Contains(m.View(), "round 2") {
		t.Errorf("frame view missing status:\n%s", m.View())
	}
	if m.percent() != 0 {
		t.Errorf("percent() = %v, want 0", m.percent())
	}

	next, cmd := m.Update(endMsg{data: []int{1, 2}})
	m = next.(viewerModel)
	if cmd == nil {
		t.Error("end message should quit the program")
	}
	if m.percent() != 1 || !strings.Contains(m.View(), CompletedBanner) {
		t.Errorf("final view = %q, want completed at 100%%", m.View())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || quit != 1 {
		t.Errorf("q should quit and call onQuit once, got quit=%d", quit)
	}
}

func TestViewerModel_WindowSize(t *testing.T) {
	m := newViewerModel([]int{1}, 1, 1, 40, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := next.(viewerModel).width; got != 100 {
		t.Errorf("width = %d, want 100", got)
	}
}
