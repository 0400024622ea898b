package application

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/egemenh/salestracker/internal/ports"
)

// DefaultRefreshPeriod is the number of countdown ticks between background
// refreshes.
const DefaultRefreshPeriod = 60

// Scheduler drives the recurring background refresh. It counts down from
// the period once per tick and, on reaching zero, resets and triggers a
// background pass unless one is already in flight. A pass slower than the
// period causes the next trigger to be skipped, never queued.
type Scheduler struct {
	period  int
	active  func() bool
	trigger func() bool
	onTick  func(remaining int)
	sleeper ports.Sleeper
	logger  *log.Logger

	mu        sync.Mutex
	remaining int
}

// NewScheduler wires the countdown. active gates the whole countdown
// (history and credentials must both be present); trigger starts a
// background pass and reports false when one was already running.
func NewScheduler(period int, active func() bool, trigger func() bool, onTick func(int), sleeper ports.Sleeper, logger *log.Logger) *Scheduler {
	if period <= 0 {
		period = DefaultRefreshPeriod
	}
	if onTick == nil {
		onTick = func(int) {}
	}
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Scheduler{
		period:    period,
		active:    active,
		trigger:   trigger,
		onTick:    onTick,
		sleeper:   sleeper,
		logger:    logger,
		remaining: period,
	}
}

// Tick advances the countdown by one step.
func (s *Scheduler) Tick() {
	if !s.active() {
		s.mu.Lock()
		s.remaining = s.period
		s.mu.Unlock()
		s.onTick(s.period)
		return
	}

	s.mu.Lock()
	s.remaining--
	fire := s.remaining <= 0
	if fire {
		s.remaining = s.period
	}
	remaining := s.remaining
	s.mu.Unlock()

	s.onTick(remaining)

	if fire && !s.trigger() {
		s.logger.Debug("background refresh skipped, sync pass in flight")
	}
}

// Run ticks once per second until the context is cancelled. There is a
// single countdown per Run call, so cancelling the context is all it takes
// to avoid leaked timers.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.sleeper.Sleep(ctx, time.Second); err != nil {
			return err
		}
		s.Tick()
	}
}
