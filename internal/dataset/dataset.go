// Package dataset loads the numeric input of a sort run and lays it out as a
// shared task table.
//
// The source file holds whitespace-separated integers. The first one is the
// element count; exactly that many values follow.
package dataset

import (
	"bufio"
	"fmt"
	"strconv"
	"time"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/spf13/afero"
)

// Load reads the values stored at path on fs.
func Load(fs afero.Fs, path string) ([]int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		return nil, fmt.Errorf("%w: %s is empty", perrors.ErrInvalidDataset, path)
	}
	count, err := strconv.Atoi(sc.Text())
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad element count %q", perrors.ErrInvalidDataset, sc.Text())
	}

	values := make([]int, 0, count)
	for len(values) < count && sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %q is not an integer", perrors.ErrInvalidDataset, len(values), sc.Text())
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(values) != count {
		return nil, fmt.Errorf("%w: header declares %d elements, found %d", perrors.ErrInvalidDataset, count, len(values))
	}
	return values, nil
}

// Initialize loads path and partitions it into a table of levels levels,
// every task Pending. delay is recorded as the per-step execution delay.
func Initialize(fs afero.Fs, path string, levels, workers int, delay time.Duration) (*tasktable.Table, error) {
	values, err := Load(fs, path)
	if err != nil {
		return nil, err
	}
	table, err := tasktable.New(values, levels, workers, delay)
	if err != nil {
		return nil, fmt.Errorf("partition dataset: %w", err)
	}
	return table, nil
}
