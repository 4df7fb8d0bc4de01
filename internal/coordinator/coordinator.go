package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Iron-Ham/parsort/internal/dataset"
	"github.com/Iron-Ham/parsort/internal/dispatch"
	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"github.com/Iron-Ham/parsort/internal/event"
	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/logging"
	"github.com/Iron-Ham/parsort/internal/resource"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/Iron-Ham/parsort/internal/worker"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Options configures a run.
type Options struct {
	// Path of the dataset on Fs. A nil Fs uses the OS filesystem.
	Path string
	Fs   afero.Fs

	Levels        int
	Workers       int
	Delay         time.Duration
	QueueCapacity int
	Interval      time.Duration

	// RuntimeDir and Name place the named resources.
	RuntimeDir string
	Name       string

	Renderer heartbeat.Renderer
	Bus      *event.Bus
	Logger   *logging.Logger
}

// Report summarizes a finished run.
type Report struct {
	Interrupted bool           `json:"interrupted" yaml:"interrupted"`
	Elapsed     time.Duration  `json:"elapsed" yaml:"elapsed"`
	Elements    int            `json:"elements" yaml:"elements"`
	Dispatched  int            `json:"dispatched" yaml:"dispatched"`
	Rounds      int            `json:"rounds" yaml:"rounds"`
	Workers     []worker.Stats `json:"workers" yaml:"workers"`
	Data        []int          `json:"-" yaml:"-"`
}

// Coordinator owns every resource of one run. A Coordinator runs once.
type Coordinator struct {
	opts     Options
	fs       afero.Fs
	bus      *event.Bus
	renderer heartbeat.Renderer
	logger   *logging.Logger

	registry  *resource.Registry
	table     *tasktable.Table
	queue     *dispatch.Queue
	endpoints []*heartbeat.Endpoint
	notify    chan struct{}
	subID     string

	releaseOnce sync.Once
	releaseErr  error
}

// New creates a Coordinator for opts.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		opts:     opts,
		fs:       opts.Fs,
		bus:      opts.Bus,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		notify:   make(chan struct{}, 1),
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.bus == nil {
		c.bus = event.NewBus()
	}
	if c.renderer == nil {
		c.renderer = heartbeat.NopRenderer{}
	}
	if c.logger == nil {
		c.logger = logging.NopLogger()
	}
	c.logger = c.logger.WithPhase("coordinator")
	return c
}

// Table returns the shared task table once setup has succeeded.
func (c *Coordinator) Table() *tasktable.Table {
	return c.table
}

// Run executes the sort. Cancelling ctx is a termination request: Run then
// tears the run down and returns a report with Interrupted set and a nil
// error. Setup failures are returned as *errors.SetupError after whatever
// was already acquired has been released.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	if err := c.setup(); err != nil {
		c.logger.Error("setup failed", "error", err)
		return nil, multierr.Append(err, c.Release())
	}
	c.logger.Info("run starting",
		"elements", c.table.Len(),
		"levels", c.table.Levels(),
		"workers", c.table.Workers(),
		"delay", c.table.Delay(),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	// The initial frame is copied here, before any worker writes the data.
	observer := heartbeat.NewObserver(c.endpoints, c.table, c.renderer, c.bus, c.opts.Logger)
	g.Go(func() error { return observer.Run(gctx) })

	workers := make([]*worker.Worker, len(c.endpoints))
	for i, ep := range c.endpoints {
		workers[i] = worker.New(worker.Config{
			Slot:     i,
			Table:    c.table,
			Queue:    c.queue,
			Endpoint: ep,
			Bus:      c.bus,
			Logger:   c.opts.Logger,
			Interval: c.opts.Interval,
		})
		g.Go(func() error { return workers[i].Run(gctx) })
	}

	schedErr := c.schedule(gctx)

	// Termination request for every worker and the observer.
	cancel()
	c.queue.Close()
	if err := g.Wait(); err != nil {
		c.logger.Error("run failed", "error", err)
		return nil, multierr.Append(err, c.Release())
	}
	if schedErr != nil && !perrors.IsShutdown(schedErr) {
		return nil, multierr.Append(schedErr, c.Release())
	}

	report := &Report{
		Interrupted: !c.table.TopDone(),
		Elapsed:     time.Since(start),
		Elements:    c.table.Len(),
		Dispatched:  int(c.queue.Pushed()),
		Rounds:      observer.Rounds(),
		Data:        c.table.Data(),
	}
	for _, w := range workers {
		report.Workers = append(report.Workers, w.Stats())
	}

	if report.Interrupted {
		c.logger.Info("run interrupted", "elapsed", report.Elapsed, "dispatched", report.Dispatched)
	} else {
		if err := c.renderer.End(append([]int(nil), report.Data...)); err != nil {
			c.logger.Warn("render failed", "stage", "end", "error", err)
		}
		c.logger.Info("run completed", "elapsed", report.Elapsed, "rounds", report.Rounds)
	}
	c.bus.Publish(event.NewRunCompletedEvent(report.Interrupted, report.Elapsed))

	return report, c.Release()
}

// setup acquires the named resources and builds the shared state.
func (c *Coordinator) setup() error {
	c.registry = resource.NewRegistry(c.opts.RuntimeDir, c.opts.Name)

	if _, err := c.registry.Create(resource.KindTable); err != nil {
		return err
	}
	table, err := dataset.Initialize(c.fs, c.opts.Path, c.opts.Levels, c.opts.Workers, c.opts.Delay)
	if err != nil {
		return perrors.NewSetupError(resource.KindTable, "initialize", err)
	}
	c.table = table

	if _, err := c.registry.Create(resource.KindQueue); err != nil {
		return err
	}
	c.queue = dispatch.New(c.opts.QueueCapacity)

	if _, err := c.registry.Create(resource.KindLock); err != nil {
		return err
	}
	c.endpoints = heartbeat.NewEndpoints(table.Workers())

	c.subID = c.bus.Subscribe(event.TypeTaskCompleted, func(event.Event) {
		select {
		case c.notify <- struct{}{}:
		default:
		}
	})
	return nil
}

// schedule dispatches every task in level order and then waits for the top
// task. It returns nil once the top task is done.
func (c *Coordinator) schedule(ctx context.Context) error {
	for level := 0; level < c.table.Levels(); level++ {
		for index := 0; index < c.table.Parts(level); index++ {
			if err := c.awaitReady(ctx, level, index); err != nil {
				return err
			}
			if err := c.dispatch(ctx, level, index); err != nil {
				return err
			}
		}
	}

	for !c.table.TopDone() {
		if err := c.wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// awaitReady blocks until the task at (level, index) has both children done.
func (c *Coordinator) awaitReady(ctx context.Context, level, index int) error {
	for {
		ready, err := c.table.ChildrenDone(level, index)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if err := c.wait(ctx); err != nil {
			return err
		}
	}
}

func (c *Coordinator) dispatch(ctx context.Context, level, index int) error {
	if err := c.table.Mark(level, index, tasktable.Dispatched); err != nil {
		return fmt.Errorf("dispatch (%d,%d): %w", level, index, err)
	}
	// Announced before the push so no worker can report the task first.
	c.bus.Publish(event.NewTaskDispatchedEvent(level, index))
	if err := c.queue.Push(ctx, dispatch.Descriptor{Level: level, Index: index}); err != nil {
		return err
	}
	c.logger.Debug("task dispatched", "level", level, "index", index, "queued", c.queue.Len())
	return nil
}

// wait blocks until a completion is announced. Notifications coalesce, so
// callers must re-check the condition they are waiting for.
func (c *Coordinator) wait(ctx context.Context) error {
	select {
	case <-c.notify:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", perrors.ErrShutdown, ctx.Err())
	}
}

// Release tears down whatever the run acquired. It tolerates partial setup
// and only acts on its first call; later calls return the first result.
func (c *Coordinator) Release() error {
	c.releaseOnce.Do(func() {
		var err error
		if c.subID != "" {
			c.bus.Unsubscribe(c.subID)
		}
		if c.queue != nil {
			c.queue.Close()
		}
		if c.registry != nil {
			err = multierr.Append(err, c.registry.UnlinkAll())
		}
		c.releaseErr = err
		c.logger.Debug("resources released", "error", err)
	})
	return c.releaseErr
}
