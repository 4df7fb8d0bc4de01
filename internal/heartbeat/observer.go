package heartbeat

import (
	"context"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"github.com/Iron-Ham/parsort/internal/event"
	"github.com/Iron-Ham/parsort/internal/logging"
	"github.com/Iron-Ham/parsort/internal/tasktable"
)

// Frame is everything the observer knows after one round.
type Frame struct {
	Round   int
	Samples []Sample
	Data    []int
	Counts  tasktable.Counts
}

// Renderer displays a run. Begin is called once before the first round and
// End once after the top task has completed.
type Renderer interface {
	Begin(data []int, levels, workers int) error
	Round(f Frame) error
	End(data []int) error
}

// Observer drives heartbeat rounds over a set of endpoints.
type Observer struct {
	endpoints []*Endpoint
	table     *tasktable.Table
	renderer  Renderer
	bus       *event.Bus
	logger    *logging.Logger
	initial   []int
	rounds    int
}

// NewObserver creates an observer for endpoints. It copies the dataset as
// the initial frame, so it must be called before any worker starts. A nil
// logger discards output.
func NewObserver(endpoints []*Endpoint, table *tasktable.Table, renderer Renderer, bus *event.Bus, logger *logging.Logger) *Observer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Observer{
		endpoints: endpoints,
		table:     table,
		renderer:  renderer,
		bus:       bus,
		logger:    logger.WithPhase("observer"),
		initial:   append([]int(nil), table.Data()...),
	}
}

// Rounds returns the number of rounds completed so far. It must not be
// called while Run is active.
func (o *Observer) Rounds() int {
	return o.rounds
}

// Run renders the dataset as it was when the observer was created and then
// serves rounds until ctx is done.
// A termination request ends Run with a nil error.
func (o *Observer) Run(ctx context.Context) error {
	if err := o.renderer.Begin(o.initial, o.table.Levels(), len(o.endpoints)); err != nil {
		o.logger.Warn("render failed", "stage", "begin", "error", err)
	}

	for {
		if err := o.round(ctx); err != nil {
			if perrors.IsShutdown(err) {
				o.logger.Debug("observer stopped", "rounds", o.rounds)
				return nil
			}
			return err
		}
	}
}

// round collects one sample per worker, renders them, then releases every
// worker.
func (o *Observer) round(ctx context.Context) error {
	samples := make([]Sample, len(o.endpoints))
	for i, ep := range o.endpoints {
		s, err := ep.receive(ctx)
		if err != nil {
			return err
		}
		samples[i] = s
	}
	o.rounds++

	// Every worker is parked on its token, so the dataset is stable here.
	frame := Frame{
		Round:   o.rounds,
		Samples: samples,
		Data:    append([]int(nil), o.table.Data()...),
		Counts:  o.table.Counts(),
	}
	if err := o.renderer.Round(frame); err != nil {
		o.logger.Warn("render failed", "stage", "round", "round", o.rounds, "error", err)
	}
	if o.bus != nil {
		o.bus.Publish(event.NewHeartbeatRoundEvent(o.rounds, len(o.endpoints)))
	}

	for _, ep := range o.endpoints {
		if err := ep.release(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NopRenderer discards every frame.
type NopRenderer struct{}

func (NopRenderer) Begin([]int, int, int) error { return nil }
func (NopRenderer) Round(Frame) error           { return nil }
func (NopRenderer) End([]int) error             { return nil }
