// Package event provides a pub-sub event bus for the components of a sort
// run.
//
// Workers publish [TaskCompletedEvent] after marking a task Done; the
// coordinator subscribes to it and turns each delivery into a wake-up of its
// scheduling loop. Because the coordinator re-derives readiness from the
// task table on every wake-up, deliveries may be coalesced without losing
// progress.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers run synchronously on
// the publishing goroutine, so they must not block.
package event
