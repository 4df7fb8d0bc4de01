// Package worker runs the sort tasks handed out by the coordinator.
//
// A worker receives descriptors from the distribution channel, executes the
// task against the shared table, marks it done and announces the completion
// on the event bus. Every blocking wait also services the worker's heartbeat
// timer: when it fires, the worker reports to the observer, waits for the
// continue token, re-arms the timer and resumes the wait it was in.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Iron-Ham/parsort/internal/dispatch"
	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"github.com/Iron-Ham/parsort/internal/event"
	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/logging"
	"github.com/Iron-Ham/parsort/internal/sorter"
	"github.com/Iron-Ham/parsort/internal/tasktable"
)

// Stats counts the work a worker has finished.
type Stats struct {
	Tasks    int `json:"tasks" yaml:"tasks"`
	Elements int `json:"elements" yaml:"elements"`
}

// Config holds the collaborators of one worker.
type Config struct {
	Slot     int
	Table    *tasktable.Table
	Queue    *dispatch.Queue
	Endpoint *heartbeat.Endpoint
	Bus      *event.Bus
	Logger   *logging.Logger
	// Interval between heartbeats. Zero uses heartbeat.DefaultInterval.
	Interval time.Duration
}

// Worker executes tasks for one pool slot. A Worker is driven by a single
// goroutine calling Run.
type Worker struct {
	slot     int
	table    *tasktable.Table
	queue    *dispatch.Queue
	endpoint *heartbeat.Endpoint
	bus      *event.Bus
	logger   *logging.Logger
	interval time.Duration

	timer   *time.Timer
	current dispatch.Descriptor
	holding bool
	reports int
	stats   Stats
}

// New creates a worker from cfg.
func New(cfg Config) *Worker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = heartbeat.DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Worker{
		slot:     cfg.Slot,
		table:    cfg.Table,
		queue:    cfg.Queue,
		endpoint: cfg.Endpoint,
		bus:      cfg.Bus,
		logger:   logger.WithPhase("worker").WithWorker(cfg.Slot),
		interval: interval,
	}
}

// Slot returns the pool slot of the worker.
func (w *Worker) Slot() int {
	return w.slot
}

// Stats returns what the worker has done. It must not be called while Run
// is active.
func (w *Worker) Stats() Stats {
	return w.stats
}

// Run processes descriptors until the queue is closed or ctx is done. A
// termination request ends Run with a nil error; any other error means the
// shared table was driven into an inconsistent state.
func (w *Worker) Run(ctx context.Context) error {
	w.timer = time.NewTimer(w.interval)
	defer w.timer.Stop()

	defer func() {
		w.logger.Info("worker exiting",
			"tasks", w.stats.Tasks,
			"elements", w.stats.Elements,
			"heartbeats", w.reports,
		)
	}()

	for {
		d, err := w.receive(ctx)
		if err != nil {
			return w.exit(err)
		}
		if err := w.process(ctx, d); err != nil {
			return w.exit(err)
		}
	}
}

func (w *Worker) exit(err error) error {
	if perrors.IsShutdown(err) {
		return nil
	}
	return err
}

// receive waits for the next descriptor, servicing heartbeats meanwhile. A
// pending termination request wins over a buffered descriptor.
func (w *Worker) receive(ctx context.Context) (dispatch.Descriptor, error) {
	for {
		if err := w.stopped(ctx); err != nil {
			return dispatch.Descriptor{}, err
		}
		select {
		case d := <-w.queue.C():
			if err := w.stopped(ctx); err != nil {
				return dispatch.Descriptor{}, err
			}
			return d, nil
		case <-w.queue.Done():
			return dispatch.Descriptor{}, perrors.ErrShutdown
		case <-ctx.Done():
			return dispatch.Descriptor{}, fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
		case <-w.timer.C:
			if err := w.beat(ctx); err != nil {
				return dispatch.Descriptor{}, err
			}
		}
	}
}

// stopped reports a termination request without blocking.
func (w *Worker) stopped(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	case <-w.queue.Done():
		return perrors.ErrShutdown
	default:
		return nil
	}
}

// process runs one received task to completion.
func (w *Worker) process(ctx context.Context, d dispatch.Descriptor) error {
	task, err := w.table.Task(d.Level, d.Index)
	if err != nil {
		return fmt.Errorf("receive task %s: %w", d, err)
	}
	w.current, w.holding = d, true

	if err := w.table.Mark(d.Level, d.Index, tasktable.Running); err != nil {
		return fmt.Errorf("start task %s: %w", d, err)
	}
	w.publish(event.NewTaskStartedEvent(w.slot, d.Level, d.Index))
	w.logger.Debug("task started", "level", d.Level, "index", d.Index)

	if err := sorter.Execute(ctx, w.table, d.Level, d.Index, w); err != nil {
		return err
	}

	if err := w.table.Mark(d.Level, d.Index, tasktable.Done); err != nil {
		return fmt.Errorf("complete task %s: %w", d, err)
	}
	w.stats.Tasks++
	w.stats.Elements += task.Len()
	w.publish(event.NewTaskCompletedEvent(w.slot, d.Level, d.Index))
	w.logger.Debug("task completed", "level", d.Level, "index", d.Index, "elements", task.Len())
	return nil
}

// Pause sleeps for the table's delay. A heartbeat that fires during the
// sleep is serviced and the sleep resumes for its remaining time.
func (w *Worker) Pause(ctx context.Context) error {
	delay := w.table.Delay()
	if delay <= 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
		case <-w.timer.C:
			return w.beat(ctx)
		default:
			return nil
		}
	}

	sleep := time.NewTimer(delay)
	defer sleep.Stop()
	for {
		select {
		case <-sleep.C:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
		case <-w.timer.C:
			if err := w.beat(ctx); err != nil {
				return err
			}
		}
	}
}

// beat reports the worker's status and re-arms the heartbeat timer once the
// observer has released the round.
func (w *Worker) beat(ctx context.Context) error {
	w.reports++
	if err := w.endpoint.Report(ctx, w.sample()); err != nil {
		return err
	}
	w.timer.Reset(w.interval)
	return nil
}

func (w *Worker) sample() heartbeat.Sample {
	s := heartbeat.Sample{Worker: w.slot, Round: w.reports, Level: -1, Index: -1}
	if !w.holding {
		return s
	}
	task, err := w.table.Task(w.current.Level, w.current.Index)
	if err != nil {
		return s
	}
	s.State = task.State
	s.Level, s.Index = task.Level, task.Index
	s.Start, s.End = task.Start, task.End
	return s
}

func (w *Worker) publish(e event.Event) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}

var _ sorter.Pacer = (*Worker)(nil)
