package system

import (
	"context"
	"time"

	"github.com/l1jgo/worldcore/internal/core/clock"
	"go.uber.org/zap"
)

// DefaultTickLength is the game tick used when no rate is configured.
const DefaultTickLength = 600 * time.Millisecond

// NextDelay returns how long to wait before the next cycle given how long the
// previous one took. Overruns yield zero; missed ticks are never replayed.
func NextDelay(tickLength, took time.Duration) time.Duration {
	if took >= tickLength {
		return 0
	}
	return tickLength - took
}

// Scheduler drives a Runner at a fixed tick length.
//
// Every cycle runs PhaseTimers through PhaseAdvance. PhaseSync and later
// phases only run when active reports at least one live entity, so an empty
// world costs nothing beyond timer draining and input.
type Scheduler struct {
	runner     *Runner
	clk        clock.Clock
	tickLength time.Duration
	active     func() int
	log        *zap.Logger
	debug      bool

	tick uint64
}

type SchedulerOption func(*Scheduler)

// WithTickTimeLogging logs every cycle's duration at debug level.
func WithTickTimeLogging(on bool) SchedulerOption {
	return func(s *Scheduler) { s.debug = on }
}

func NewScheduler(runner *Runner, clk clock.Clock, tickLength time.Duration, active func() int, log *zap.Logger, opts ...SchedulerOption) *Scheduler {
	if tickLength <= 0 {
		tickLength = DefaultTickLength
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if active == nil {
		active = func() int { return 1 }
	}
	s := &Scheduler{
		runner:     runner,
		clk:        clk,
		tickLength: tickLength,
		active:     active,
		log:        log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scheduler) TickLength() time.Duration { return s.tickLength }

// Ticks returns the number of completed cycles.
func (s *Scheduler) Ticks() uint64 { return s.tick }

// Cycle executes one tick and returns the delay before the next one.
func (s *Scheduler) Cycle() time.Duration {
	start := s.clk.Now()

	s.runner.TickRange(PhaseTimers, PhaseAdvance, s.tickLength)
	if s.active() > 0 {
		s.runner.TickRange(PhaseSync, PhasePersist, s.tickLength)
	}
	s.tick++

	took := s.clk.Now().Sub(start)
	if s.debug {
		s.log.Debug("tick",
			zap.Uint64("tick", s.tick),
			zap.Duration("took", took),
		)
	}
	if took > s.tickLength {
		s.log.Warn("tick overran",
			zap.Uint64("tick", s.tick),
			zap.Duration("took", took),
			zap.Duration("tick_length", s.tickLength),
		)
	}
	return NextDelay(s.tickLength, took)
}

// Run cycles until ctx is cancelled. The first cycle starts immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	wake := make(chan struct{}, 1)
	for {
		delay := s.Cycle()

		t := s.clk.AfterFunc(delay, func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-wake:
		}
	}
}
