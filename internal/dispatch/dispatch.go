// Package dispatch provides the distribution channel between the
// coordinator and the worker pool: a bounded FIFO of task descriptors with a
// single producer and many consumers. Each descriptor is received by exactly
// one worker.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
)

// DefaultCapacity is the number of descriptors the channel buffers before
// Push blocks.
const DefaultCapacity = 10

// Descriptor names a task in the shared table. It carries no task data.
type Descriptor struct {
	Level int
	Index int
}

// String returns the descriptor as "(level,index)".
func (d Descriptor) String() string {
	return fmt.Sprintf("(%d,%d)", d.Level, d.Index)
}

// Queue is a bounded FIFO of descriptors. Push and Pop are safe for
// concurrent use; Close must not race with Push.
type Queue struct {
	ch     chan Descriptor
	closed chan struct{}
	once   sync.Once
	pushed atomic.Int64
}

// New creates a Queue that buffers up to capacity descriptors. A capacity
// below 1 uses DefaultCapacity.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{
		ch:     make(chan Descriptor, capacity),
		closed: make(chan struct{}),
	}
}

// Push appends d, blocking while the queue is full. It returns ErrShutdown
// once the queue is closed or ctx is done.
func (q *Queue) Push(ctx context.Context, d Descriptor) error {
	select {
	case <-q.closed:
		return perrors.ErrShutdown
	default:
	}
	select {
	case q.ch <- d:
		q.pushed.Add(1)
		return nil
	case <-q.closed:
		return perrors.ErrShutdown
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}

// Pop removes the oldest descriptor, blocking while the queue is empty. It
// returns ErrShutdown once the queue is closed or ctx is done.
func (q *Queue) Pop(ctx context.Context) (Descriptor, error) {
	select {
	case d := <-q.ch:
		return d, nil
	case <-q.closed:
		return Descriptor{}, perrors.ErrShutdown
	case <-ctx.Done():
		return Descriptor{}, fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}

// C exposes the receive side so workers can wait on the queue alongside
// other events. Receivers must also watch Done.
func (q *Queue) C() <-chan Descriptor {
	return q.ch
}

// Done is closed when the queue is closed.
func (q *Queue) Done() <-chan struct{} {
	return q.closed
}

// Len returns the number of buffered descriptors.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Pushed returns how many descriptors have been accepted since creation.
func (q *Queue) Pushed() int64 {
	return q.pushed.Load()
}

// Close releases blocked callers. Buffered descriptors are discarded.
// Close is idempotent.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.closed) })
}
