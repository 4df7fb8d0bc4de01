package render

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Plot sizing defaults.
const (
	DefaultWidth  = 80
	DefaultHeight = 12
)

const (
	fullBlock  = "█"
	emptyBlock = " "
)

// TerminalWidth returns the width of stdout, or DefaultWidth when stdout is
// not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// Plot draws data as a bar chart at most width columns wide and height rows
// tall. Each column stands for one element, or for the maximum of a run of
// neighbouring elements when there are more elements than columns.
func Plot(data []int, width, height int) string {
	if len(data) == 0 {
		return Muted.Render("(empty dataset)")
	}
	if width < 1 {
		width = DefaultWidth
	}
	if height < 1 {
		height = DefaultHeight
	}

	cols := columns(data, width)
	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	heights := make([]int, len(cols))
	for i, v := range cols {
		if hi == lo {
			heights[i] = height
			continue
		}
		heights[i] = 1 + (v-lo)*(height-1)/(hi-lo)
	}

	rows := make([]string, height)
	var b strings.Builder
	for r := 0; r < height; r++ {
		b.Reset()
		level := height - r
		for _, h := range heights {
			if h >= level {
				b.WriteString(fullBlock)
			} else {
				b.WriteString(emptyBlock)
			}
		}
		rows[r] = Bar.Render(strings.TrimRight(b.String(), emptyBlock))
	}
	return strings.Join(rows, "\n")
}

// columns reduces data to at most width values.
func columns(data []int, width int) []int {
	if len(data) <= width {
		return data
	}
	out := make([]int, width)
	for c := range out {
		start := c * len(data) / width
		end := (c + 1) * len(data) / width
		m := data[start]
		for _, v := range data[start:end] {
			m = max(m, v)
		}
		out[c] = m
	}
	return out
}
