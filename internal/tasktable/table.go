package tasktable

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Maximum grid dimensions accepted by New.
const (
	MaxLevels  = 10
	MaxWorkers = 512
)

// Sentinel errors returned by table operations.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotReady          = errors.New("dependencies not done")
	ErrInvalidShape      = errors.New("invalid table shape")
)

// Table is the shared task table. Task state is safe for concurrent use via
// an internal mutex; the dataset returned by Data is not synchronized.
type Table struct {
	mu      sync.Mutex
	tasks   [][]Task
	data    []int
	levels  int
	workers int
	delay   time.Duration
}

// New creates a Table over data with the given number of levels. Every task
// starts Pending. workers and delay are recorded for the workers and the
// observer; the table itself does not use them.
func New(data []int, levels, workers int, delay time.Duration) (*Table, error) {
	if levels < 1 || levels > MaxLevels {
		return nil, fmt.Errorf("%w: levels must be between 1 and %d, got %d", ErrInvalidShape, MaxLevels, levels)
	}
	if workers < 1 || workers > MaxWorkers {
		return nil, fmt.Errorf("%w: workers must be between 1 and %d, got %d", ErrInvalidShape, MaxWorkers, workers)
	}
	if delay < 0 {
		return nil, fmt.Errorf("%w: delay must be non-negative, got %s", ErrInvalidShape, delay)
	}
	return &Table{
		tasks:   layout(len(data), levels),
		data:    data,
		levels:  levels,
		workers: workers,
		delay:   delay,
	}, nil
}

// Levels returns the number of levels in the grid.
func (t *Table) Levels() int {
	return t.levels
}

// Parts returns the number of tasks at level.
func (t *Table) Parts(level int) int {
	return PartsAtLevel(level, t.levels)
}

// Workers returns the worker count the table was sized for.
func (t *Table) Workers() int {
	return t.workers
}

// Delay returns the artificial per-step delay applied while executing tasks.
func (t *Table) Delay() time.Duration {
	return t.delay
}

// Len returns the number of elements in the dataset.
func (t *Table) Len() int {
	return len(t.data)
}

// Data returns the dataset backing the table. Callers may only write inside
// the range of a task they are executing.
func (t *Table) Data() []int {
	return t.data
}

// Top returns the coordinates of the single top-level task.
func (t *Table) Top() (level, index int) {
	return t.levels - 1, 0
}

// lookup returns the task at (level, index). Must be called with t.mu held.
func (t *Table) lookup(level, index int) (*Task, error) {
	if level < 0 || level >= t.levels || index < 0 || index >= len(t.tasks[level]) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrTaskNotFound, level, index)
	}
	return &t.tasks[level][index], nil
}

// childrenDone reports readiness of task. Must be called with t.mu held.
func (t *Table) childrenDone(task *Task) bool {
	if task.Level == 0 {
		return true
	}
	below := t.tasks[task.Level-1]
	return below[2*task.Index].State == Done && below[2*task.Index+1].State == Done
}

// Mark moves the task at (level, index) to state. Tasks advance one step at
// a time through Pending, Dispatched, Running and Done; a task may not enter
// Running while either child is not Done.
func (t *Table) Mark(level, index int, state State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.lookup(level, index)
	if err != nil {
		return err
	}
	if next, ok := task.State.next(); !ok || next != state {
		return fmt.Errorf("%w: cannot move (%d,%d) from %s to %s", ErrInvalidTransition, level, index, task.State, state)
	}
	if state == Running && !t.childrenDone(task) {
		return fmt.Errorf("%w: (%d,%d)", ErrNotReady, level, index)
	}
	task.State = state
	return nil
}

// Read returns the current state of the task at (level, index).
func (t *Table) Read(level, index int) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.lookup(level, index)
	if err != nil {
		return Pending, err
	}
	return task.State, nil
}

// ChildrenDone reports whether the task at (level, index) is ready: true for
// every level-0 task, otherwise true iff both children are Done.
func (t *Table) ChildrenDone(level, index int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.lookup(level, index)
	if err != nil {
		return false, err
	}
	return t.childrenDone(task), nil
}

// Task returns a copy of the task at (level, index).
func (t *Table) Task(level, index int) (Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.lookup(level, index)
	if err != nil {
		return Task{}, err
	}
	return *task, nil
}

// TopDone reports whether the top-level task has completed.
func (t *Table) TopDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tasks[t.levels-1][0].State == Done
}

// Snapshot returns a copy of the whole grid.
func (t *Table) Snapshot() [][]Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][]Task, len(t.tasks))
	for i, row := range t.tasks {
		out[i] = append([]Task(nil), row...)
	}
	return out
}

// Counts returns the number of tasks in each state.
func (t *Table) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()

	var c Counts
	for _, row := range t.tasks {
		for _, task := range row {
			c.Total++
			switch task.State {
			case Pending:
				c.Pending++
			case Dispatched:
				c.Dispatched++
			case Running:
				c.Running++
			case Done:
				c.Done++
			}
		}
	}
	return c
}
