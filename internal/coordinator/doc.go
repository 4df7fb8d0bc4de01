// Package coordinator runs one parallel sort from setup to teardown.
//
// The coordinator acquires the named resources, loads the dataset into the
// shared task table, starts the worker pool and the heartbeat observer, and
// then walks the merge tree in level order. A task is pushed onto the
// distribution channel once both of its children are done; when the task
// under the cursor is not ready the coordinator blocks until a worker
// announces a completion and re-checks the same task. After the last push
// it keeps waiting on completions until the top task is done.
//
// Completion and interruption (cancellation of the context passed to Run)
// both end in the same release routine, which runs at most once.
package coordinator
