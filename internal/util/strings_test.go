package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateANSI(t *testing.T) {
	greenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short plain line unchanged", "COMPLETED", 20, "COMPLETED"},
		{"plain line truncated", "Starting algorithm with 3 levels", 12, "Starting ..."},
		{"exact width unchanged", "PENDING", 7, "PENDING"},
		{"tiny width returns ellipsis", "PENDING", 3, "..."},
		{"negative width returns ellipsis", "PENDING", -1, "..."},
		{"empty string unchanged", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateANSI(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}

	t.Run("styled line keeps width limit", func(t *testing.T) {
		styled := greenStyle.Render("PROCESSING worker 12 level 3")
		got := TruncateANSI(styled, 10)
		if w := lipgloss.Width(got); w > 10 {
			t.Errorf("width = %d, want <= 10", w)
		}
	})

	t.Run("styled line unchanged when it fits", func(t *testing.T) {
		styled := greenStyle.Render("SENT")
		if got := TruncateANSI(styled, 10); got != styled {
			t.Errorf("TruncateANSI modified %q into %q", styled, got)
		}
	})

	t.Run("wide characters measured by width", func(t *testing.T) {
		got := TruncateANSI("日本語テスト", 7)
		if w := lipgloss.Width(got); w > 7 {
			t.Errorf("width = %d, want <= 7", w)
		}
	})
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{11, 1, 10, 10},
		{512, 1, 512, 512},
		{-3, 1, 512, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
