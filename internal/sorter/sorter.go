// Package sorter executes one task of the merge tree against the shared
// dataset: level-0 tasks bubble sort their range, higher levels merge the two
// sorted halves left by their children.
package sorter

import (
	"context"

	"github.com/Iron-Ham/parsort/internal/tasktable"
)

// Pacer is called between steps of a task. Workers use it to apply the
// artificial delay and to service heartbeats while a task is in progress.
// A non-nil error aborts the task.
type Pacer interface {
	Pause(ctx context.Context) error
}

// PacerFunc adapts a function to the Pacer interface.
type PacerFunc func(ctx context.Context) error

// Pause calls f(ctx).
func (f PacerFunc) Pause(ctx context.Context) error {
	return f(ctx)
}

// NoPause is a Pacer that never waits.
var NoPause Pacer = PacerFunc(func(ctx context.Context) error { return ctx.Err() })

// Execute sorts the range owned by the task at (level, index) in place. It
// only writes inside that range and never touches task state. The returned
// error is the pacer's, which in practice means the run was canceled.
func Execute(ctx context.Context, table *tasktable.Table, level, index int, pacer Pacer) error {
	task, err := table.Task(level, index)
	if err != nil {
		return err
	}
	data := table.Data()
	if task.IsLeaf() {
		return bubbleSort(ctx, data[task.Start:task.End], pacer)
	}
	return merge(ctx, data[task.Start:task.End], task.Mid-task.Start, pacer)
}

// bubbleSort sorts s ascending, pausing once per pass.
func bubbleSort(ctx context.Context, s []int, pacer Pacer) error {
	for n := len(s); n > 1; n-- {
		if err := pacer.Pause(ctx); err != nil {
			return err
		}
		swapped := false
		for i := 1; i < n; i++ {
			if s[i-1] > s[i] {
				s[i-1], s[i] = s[i], s[i-1]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return nil
}

// merge combines the sorted runs s[:mid] and s[mid:] into s.
func merge(ctx context.Context, s []int, mid int, pacer Pacer) error {
	out := make([]int, 0, len(s))
	i, j := 0, mid
	for i < mid && j < len(s) {
		if s[j] < s[i] {
			out = append(out, s[j])
			j++
		} else {
			out = append(out, s[i])
			i++
		}
	}
	out = append(out, s[i:mid]...)
	out = append(out, s[j:]...)

	if err := pacer.Pause(ctx); err != nil {
		return err
	}
	copy(s, out)
	return nil
}
