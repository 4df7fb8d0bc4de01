package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/util"
)

// StartBanner is printed after the initial plot.
func StartBanner(levels, workers int) string {
	return fmt.Sprintf("Starting algorithm with %d levels and %d workers...", levels, workers)
}

// CompletedBanner is printed after the final plot.
const CompletedBanner = "Algorithm completed"

// Text writes every frame to an io.Writer.
type Text struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	height int
}

// NewText creates a Text renderer. A width below 1 uses the terminal width.
func NewText(w io.Writer, width int) *Text {
	if width < 1 {
		width = TerminalWidth()
	}
	return &Text{w: w, width: width, height: DefaultHeight}
}

// Begin plots the initial dataset and prints the start banner.
func (t *Text) Begin(data []int, levels, workers int) error {
	return t.write(Plot(data, t.width, t.height), "", Title.Render(StartBanner(levels, workers)))
}

// Round plots the dataset and prints the status table of the round.
func (t *Text) Round(f heartbeat.Frame) error {
	return t.write(
		"",
		Muted.Render(Summary(f.Round, f.Counts)),
		StatusTable(f.Samples),
		Plot(f.Data, t.width, t.height),
	)
}

// End plots the sorted dataset and prints the completion banner.
func (t *Text) End(data []int) error {
	return t.write(Plot(data, t.width, t.height), "", Title.Render(CompletedBanner))
}

func (t *Text) write(blocks ...string) error {
	var b strings.Builder
	for _, block := range blocks {
		for _, line := range strings.Split(block, "\n") {
			b.WriteString(util.TruncateANSI(line, t.width))
			b.WriteByte('\n')
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, b.String())
	return err
}

var _ heartbeat.Renderer = (*Text)(nil)
