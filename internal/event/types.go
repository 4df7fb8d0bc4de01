// Package event defines the events exchanged between the coordinator, the
// workers and the observer of a sort run.
package event

import "time"

// Event type identifiers.
const (
	TypeTaskDispatched = "task.dispatched"
	TypeTaskStarted    = "task.started"
	TypeTaskCompleted  = "task.completed"
	TypeHeartbeatRound = "heartbeat.round"
	TypeRunCompleted   = "run.completed"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "task.completed").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Task Events
// -----------------------------------------------------------------------------

// TaskDispatchedEvent is emitted when the coordinator marks a task dispatched,
// right before it is pushed onto the distribution channel.
type TaskDispatchedEvent struct {
	baseEvent
	Level int
	Index int
}

// NewTaskDispatchedEvent creates a TaskDispatchedEvent.
func NewTaskDispatchedEvent(level, index int) TaskDispatchedEvent {
	return TaskDispatchedEvent{
		baseEvent: newBaseEvent(TypeTaskDispatched),
		Level:     level,
		Index:     index,
	}
}

// TaskStartedEvent is emitted when a worker marks a task Running.
type TaskStartedEvent struct {
	baseEvent
	Worker int
	Level  int
	Index  int
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(worker, level, index int) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent: newBaseEvent(TypeTaskStarted),
		Worker:    worker,
		Level:     level,
		Index:     index,
	}
}

// TaskCompletedEvent is emitted when a worker marks a task Done. It is the
// completion notification the coordinator waits on.
type TaskCompletedEvent struct {
	baseEvent
	Worker int
	Level  int
	Index  int
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(worker, level, index int) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent: newBaseEvent(TypeTaskCompleted),
		Worker:    worker,
		Level:     level,
		Index:     index,
	}
}

// -----------------------------------------------------------------------------
// Lifecycle Events
// -----------------------------------------------------------------------------

// HeartbeatRoundEvent is emitted by the observer after it has rendered a
// round and before it releases the workers.
type HeartbeatRoundEvent struct {
	baseEvent
	Round   int
	Workers int
}

// NewHeartbeatRoundEvent creates a HeartbeatRoundEvent.
func NewHeartbeatRoundEvent(round, workers int) HeartbeatRoundEvent {
	return HeartbeatRoundEvent{
		baseEvent: newBaseEvent(TypeHeartbeatRound),
		Round:     round,
		Workers:   workers,
	}
}

// RunCompletedEvent is emitted once per run, after every worker and the
// observer have exited.
type RunCompletedEvent struct {
	baseEvent
	Interrupted bool
	Elapsed     time.Duration
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(interrupted bool, elapsed time.Duration) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent:   newBaseEvent(TypeRunCompleted),
		Interrupted: interrupted,
		Elapsed:     elapsed,
	}
}
