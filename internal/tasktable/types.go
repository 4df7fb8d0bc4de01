package tasktable

// State represents the execution state of a task.
type State int

const (
	// Pending indicates the task has not been handed to a worker.
	Pending State = iota

	// Dispatched indicates the coordinator pushed the task onto the
	// distribution channel.
	Dispatched

	// Running indicates a worker has picked the task up.
	Running

	// Done indicates the task's range is sorted in place.
	Done
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Dispatched:
		return "SENT"
	case Running:
		return "PROCESSING"
	case Done:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// next returns the only state a task may move to from s.
func (s State) next() (State, bool) {
	switch s {
	case Pending:
		return Dispatched, true
	case Dispatched:
		return Running, true
	case Running:
		return Done, true
	default:
		return s, false
	}
}

// Task is one cell of the grid. Start and End bound the half-open dataset
// range the task owns. For merge tasks Mid is where the second child's range
// begins; for leaf tasks Mid is -1.
type Task struct {
	Level int   `json:"level" yaml:"level"`
	Index int   `json:"index" yaml:"index"`
	State State `json:"-" yaml:"-"`
	Start int   `json:"start" yaml:"start"`
	Mid   int   `json:"mid" yaml:"mid"`
	End   int   `json:"end" yaml:"end"`
}

// Len returns the number of elements in the task's range.
func (t Task) Len() int {
	return t.End - t.Start
}

// IsLeaf reports whether the task sorts an initial sub-range rather than
// merging two children.
func (t Task) IsLeaf() bool {
	return t.Level == 0
}

// Counts is a snapshot of how many tasks are in each state.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Dispatched int `json:"dispatched"`
	Running    int `json:"running"`
	Done       int `json:"done"`
}
