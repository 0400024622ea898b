package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newManualScheduler(active *bool, fired *int, skip *bool) *Scheduler {
	return NewScheduler(
		3,
		func() bool { return *active },
		func() bool {
			if *skip {
				return false
			}
			*fired++
			return true
		},
		nil,
		&recordingSleeper{},
		nil,
	)
}

func TestSchedulerFiresAfterFullCountdown(t *testing.T) {
	t.Parallel()

	active := true
	fired := 0
	skip := false
	sched := newManualScheduler(&active, &fired, &skip)

	sched.Tick()
	sched.Tick()
	assert.Zero(t, fired)

	sched.Tick()
	assert.Equal(t, 1, fired)

	// Countdown restarts from the full period.
	sched.Tick()
	sched.Tick()
	assert.Equal(t, 1, fired)
	sched.Tick()
	assert.Equal(t, 2, fired)
}

func TestSchedulerSkippedTriggerIsNotQueued(t *testing.T) {
	t.Parallel()

	active := true
	fired := 0
	skip := true
	sched := newManualScheduler(&active, &fired, &skip)

	sched.Tick()
	sched.Tick()
	sched.Tick()
	assert.Zero(t, fired)

	// The missed trigger is dropped; the next one needs a full period.
	skip = false
	sched.Tick()
	sched.Tick()
	assert.Zero(t, fired)
	sched.Tick()
	assert.Equal(t, 1, fired)
}

func TestSchedulerIdleWhileInactive(t *testing.T) {
	t.Parallel()

	active := false
	fired := 0
	skip := false
	sched := newManualScheduler(&active, &fired, &skip)

	for i := 0; i < 10; i++ {
		sched.Tick()
	}
	assert.Zero(t, fired)

	// Activation starts a fresh countdown.
	active = true
	sched.Tick()
	sched.Tick()
	assert.Zero(t, fired)
	sched.Tick()
	assert.Equal(t, 1, fired)
}

func TestSchedulerReportsCountdown(t *testing.T) {
	t.Parallel()

	var seen []int
	sched := NewScheduler(
		3,
		func() bool { return true },
		func() bool { return true },
		func(remaining int) { seen = append(seen, remaining) },
		&recordingSleeper{},
		nil,
	)

	sched.Tick()
	sched.Tick()
	sched.Tick()
	sched.Tick()
	assert.Equal(t, []int{2, 1, 3, 2}, seen)
}
