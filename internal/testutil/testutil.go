// Package testutil provides dataset fixtures shared by tests.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// FormatDataset renders values in the data file format: the element count
// followed by the values.
func FormatDataset(values []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteDataset stores values at path on fs.
func WriteDataset(t *testing.T, fs afero.Fs, path string, values []int) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(FormatDataset(values)), 0644); err != nil {
		t.Fatalf("failed to write dataset %s: %v", path, err)
	}
}

// DatasetFile writes values to a file in a fresh temp directory and returns
// its path.
func DatasetFile(t *testing.T, values []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(FormatDataset(values)), 0644); err != nil {
		t.Fatalf("failed to write dataset %s: %v", path, err)
	}
	return path
}

// RandomValues returns n values in [-500, 500) from a seeded source.
func RandomValues(n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = r.Intn(1000) - 500
	}
	return out
}

// Descending returns n, n-1, ..., 1.
func Descending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - i
	}
	return out
}
