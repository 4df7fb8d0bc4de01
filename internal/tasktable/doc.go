// Package tasktable provides the shared task table for the parallel merge
// sort: a level-by-index grid of task states plus the dataset those tasks
// sort in place.
//
// Level 0 holds the leaf sorts. Every task at level L>0 merges the ranges of
// its two children (L-1, 2i) and (L-1, 2i+1) and is ready only once both are
// [Done]. The top level holds exactly one task whose range is the whole
// dataset.
//
// All reads and writes of task state go through a single table-wide mutex.
// The dataset itself is not guarded: sibling ranges never overlap, so
// workers executing different tasks never write the same element.
//
// Usage:
//
//	table, err := tasktable.New(values, 3, 4, 100*time.Millisecond)
//
//	ready, _ := table.ChildrenDone(1, 0)
//	if ready {
//	    _ = table.Mark(1, 0, tasktable.Dispatched)
//	}
package tasktable
