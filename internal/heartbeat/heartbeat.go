package heartbeat

import (
	"context"
	"fmt"
	"time"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"github.com/Iron-Ham/parsort/internal/tasktable"
)

// DefaultInterval is the time between two samples of one worker.
const DefaultInterval = time.Second

// Sample is the status a worker reports on one heartbeat. Level and Index
// are -1 until the worker has received its first task.
type Sample struct {
	Worker int
	Round  int
	State  tasktable.State
	Level  int
	Index  int
	Start  int
	End    int
}

// Idle reports whether the worker has not received a task yet.
func (s Sample) Idle() bool {
	return s.Level < 0 || s.Index < 0
}

// Endpoint is the private pair of channels between one worker and the
// observer. Both channels are unbuffered.
type Endpoint struct {
	worker  int
	samples chan Sample
	acks    chan struct{}
}

// NewEndpoints creates one endpoint per worker slot.
func NewEndpoints(workers int) []*Endpoint {
	eps := make([]*Endpoint, workers)
	for i := range eps {
		eps[i] = &Endpoint{
			worker:  i,
			samples: make(chan Sample),
			acks:    make(chan struct{}),
		}
	}
	return eps
}

// Worker returns the slot the endpoint belongs to.
func (e *Endpoint) Worker() int {
	return e.worker
}

// Report sends s to the observer and waits for the continue token. It is the
// worker side of one round.
func (e *Endpoint) Report(ctx context.Context, s Sample) error {
	select {
	case e.samples <- s:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
	select {
	case <-e.acks:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}

// receive waits for the worker's next sample.
func (e *Endpoint) receive(ctx context.Context) (Sample, error) {
	select {
	case s := <-e.samples:
		return s, nil
	case <-ctx.Done():
		return Sample{}, fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}

// release hands the worker its continue token.
func (e *Endpoint) release(ctx context.Context) error {
	select {
	case e.acks <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}
