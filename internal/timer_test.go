package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type displayRecorder struct {
	updates []DisplayUpdate
}

func (r *displayRecorder) last() DisplayUpdate {
	if len(r.updates) == 0 {
		return DisplayUpdate{}
	}
	return r.updates[len(r.updates)-1]
}

func newTestTimer(t *testing.T) (*TimerClock, *FakeClock, *displayRecorder) {
	t.Helper()
	clock := NewFakeClock(testEpoch)
	timer := NewTimerClock(clock, clock)
	rec := &displayRecorder{}
	timer.OnDisplay(func(d DisplayUpdate) { rec.updates = append(rec.updates, d) })
	return timer, clock, rec
}

func TestTimerClock_StartAndTick(t *testing.T) {
	timer, _, rec := newTestTimer(t)

	require.NoError(t, timer.Start(600))
	timer.Tick()

	assert.Equal(t, DisplayUpdate{Minutes: 10, Seconds: 0, State: VisualNormal}, rec.last())
	assert.Equal(t, 600, timer.Remaining())
	state := timer.State()
	assert.True(t, state.IsRunning)
	assert.Equal(t, testEpoch.UnixMilli(), state.StartTimeMs)
	assert.Equal(t, 600, state.InitialDurationSec)
}

func TestTimerClock_StartRejected(t *testing.T) {
	timer, _, _ := newTestTimer(t)

	assert.ErrorIs(t, timer.Start(0), ErrInvalidDuration)
	assert.ErrorIs(t, timer.Start(-5), ErrInvalidDuration)
	assert.True(t, timer.State().IsIdle())

	require.NoError(t, timer.Start(60))
	assert.ErrorIs(t, timer.Start(60), ErrInvalidTransition)

	require.NoError(t, timer.RequestStop())
	assert.ErrorIs(t, timer.Start(60), ErrInvalidTransition, "start while paused")
}

func TestTimerClock_VisualThresholds(t *testing.T) {
	timer, clock, rec := newTestTimer(t)
	require.NoError(t, timer.Start(600))

	clock.Advance(539 * time.Second)
	assert.Equal(t, VisualNormal, rec.last().State)
	assert.Equal(t, 61, timer.Remaining())

	clock.Advance(time.Second)
	assert.Equal(t, VisualWarning, rec.last().State)
	assert.Equal(t, DisplayUpdate{Minutes: 1, Seconds: 0, State: VisualWarning}, rec.last())

	clock.Advance(59 * time.Second)
	assert.Equal(t, VisualWarning, rec.last().State)
	assert.Equal(t, 1, timer.Remaining())
	assert.False(t, timer.State().IsOvertime)
}

func TestTimerClock_OvertimeEnteredOnce(t *testing.T) {
	timer, clock, rec := newTestTimer(t)
	overtimeCalls := 0
	timer.OnOvertime(func() { overtimeCalls++ })

	require.NoError(t, timer.Start(600))
	clock.Advance(600 * time.Second)

	state := timer.State()
	require.True(t, state.IsOvertime)
	require.NotNil(t, state.OvertimeStartMs)
	enteredAt := *state.OvertimeStartMs
	assert.Equal(t, testEpoch.Add(600*time.Second).UnixMilli(), enteredAt)
	assert.Equal(t, DisplayUpdate{State: VisualOvertime, Intensity: OvertimeIntensity(0)}, rec.last())

	clock.Advance(150 * time.Second)
	assert.Equal(t, 1, overtimeCalls)
	assert.Equal(t, enteredAt, *timer.State().OvertimeStartMs)

	last := rec.last()
	assert.Equal(t, VisualOvertime, last.State)
	assert.Equal(t, 2, last.Minutes)
	assert.Equal(t, 30, last.Seconds)
	assert.InDelta(t, 0.86, last.Intensity.Scale, 1e-9)
}

func TestTimerClock_ConfirmStop(t *testing.T) {
	timer, clock, rec := newTestTimer(t)
	require.NoError(t, timer.Start(600))

	clock.Advance(650 * time.Second)
	require.NoError(t, timer.RequestStop())

	frozen := rec.last()
	assert.Equal(t, 0, frozen.Minutes)
	assert.Equal(t, 50, frozen.Seconds)
	assert.True(t, timer.State().IsPaused())
	assert.Equal(t, 0, clock.Pending(), "tick cancelled while paused")

	clock.Advance(20 * time.Second)
	assert.Equal(t, frozen, timer.Display(), "display frozen while paused")

	result, err := timer.ConfirmStop()
	require.NoError(t, err)
	assert.Equal(t, StopResult{TotalTimeSec: 650, OvertimeSec: 50, InitialDurationSec: 600}, result)
	assert.True(t, timer.State().IsIdle())
	assert.Equal(t, DisplayUpdate{State: VisualNormal}, rec.last())
}

func TestTimerClock_ConfirmStopBeforeDeadline(t *testing.T) {
	timer, clock, _ := newTestTimer(t)
	require.NoError(t, timer.Start(600))
	clock.Advance(598*time.Second + 700*time.Millisecond)
	require.NoError(t, timer.RequestStop())

	result, err := timer.ConfirmStop()
	require.NoError(t, err)
	assert.Equal(t, 598, result.TotalTimeSec)
	assert.Equal(t, 0, result.OvertimeSec)
}

func TestTimerClock_CancelStop(t *testing.T) {
	timer, clock, _ := newTestTimer(t)
	require.NoError(t, timer.Start(600))

	clock.Advance(100 * time.Second)
	require.NoError(t, timer.RequestStop())
	clock.Advance(30 * time.Second)
	require.NoError(t, timer.CancelStop())

	state := timer.State()
	assert.True(t, state.IsRunning)
	assert.Nil(t, state.PauseTimeMs)
	assert.Equal(t, testEpoch.Add(30*time.Second).UnixMilli(), state.StartTimeMs)
	assert.Equal(t, 500, timer.Remaining())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 490, timer.Remaining())
}

func TestTimerClock_InvalidTransitions(t *testing.T) {
	timer, _, _ := newTestTimer(t)

	assert.ErrorIs(t, timer.RequestStop(), ErrInvalidTransition)
	assert.ErrorIs(t, timer.CancelStop(), ErrInvalidTransition)
	_, err := timer.ConfirmStop()
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestTimerClock_SetActive(t *testing.T) {
	timer, _, _ := newTestTimer(t)
	assert.Equal(t, DefaultFields(), timer.Active())

	require.NoError(t, timer.SetActive(ActiveFields{Name: "Dana", Minutes: 1000, Seconds: 61}))
	assert.Equal(t, ActiveFields{Name: "Dana", Minutes: 999, Seconds: 59}, timer.Active())

	require.NoError(t, timer.Start(60))
	assert.ErrorIs(t, timer.SetActive(DefaultFields()), ErrTimerBusy)
}

func TestTimerClock_Reset(t *testing.T) {
	timer, clock, rec := newTestTimer(t)
	require.NoError(t, timer.Start(60))
	clock.Advance(5 * time.Second)

	timer.Reset()
	assert.Equal(t, TimerState{}, timer.State())
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, DisplayUpdate{State: VisualNormal}, rec.last())

	timer.Tick()
	assert.Equal(t, DisplayUpdate{State: VisualNormal}, rec.last(), "tick ignored when idle")
}

func TestTimerClock_RestoreRunning(t *testing.T) {
	tests := []struct {
		name         string
		away         time.Duration
		wantOvertime bool
		wantState    VisualState
		wantShown    int
	}{
		{name: "well before deadline", away: 100 * time.Second, wantShown: 500, wantState: VisualNormal},
		{name: "one second before deadline", away: 599 * time.Second, wantShown: 1, wantState: VisualWarning},
		{name: "exactly at deadline", away: 600 * time.Second, wantOvertime: true, wantShown: 0, wantState: VisualOvertime},
		{name: "deadline passed while away", away: 700 * time.Second, wantOvertime: true, wantShown: 100, wantState: VisualOvertime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := TimerState{
				StartTimeMs:        testEpoch.UnixMilli(),
				InitialDurationSec: 600,
				IsRunning:          true,
			}

			timer, clock, rec := newTestTimer(t)
			clock.Jump(tt.away)
			timer.Restore(saved)

			state := timer.State()
			assert.True(t, state.IsRunning)
			assert.Equal(t, tt.wantOvertime, state.IsOvertime)
			assert.Equal(t, tt.wantState, rec.last().State)
			assert.Equal(t, tt.wantShown, timer.Remaining())
			assert.Equal(t, 1, clock.Pending(), "ticking resumed")

			if tt.wantOvertime {
				require.NotNil(t, state.OvertimeStartMs)
				assert.Equal(t, testEpoch.Add(600*time.Second).UnixMilli(), *state.OvertimeStartMs)
			}
		})
	}
}

func TestTimerClock_RestoreOvertimeKeepsStart(t *testing.T) {
	entered := testEpoch.Add(600 * time.Second).UnixMilli()
	saved := TimerState{
		StartTimeMs:        testEpoch.UnixMilli(),
		InitialDurationSec: 600,
		IsRunning:          true,
		IsOvertime:         true,
		OvertimeStartMs:    &entered,
	}

	timer, clock, rec := newTestTimer(t)
	clock.Jump(15 * time.Minute)
	timer.Restore(saved)

	assert.Equal(t, entered, *timer.State().OvertimeStartMs)
	assert.Equal(t, OvertimeIntensity(5*time.Minute), rec.last().Intensity)
	assert.Equal(t, 5, rec.last().Minutes)
}

func TestTimerClock_RestorePaused(t *testing.T) {
	pause := testEpoch.Add(45 * time.Second).UnixMilli()
	saved := TimerState{
		StartTimeMs:        testEpoch.UnixMilli(),
		InitialDurationSec: 60,
		PauseTimeMs:        &pause,
	}

	timer, clock, rec := newTestTimer(t)
	clock.Jump(time.Hour)
	timer.Restore(saved)

	assert.True(t, timer.State().IsPaused())
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, DisplayUpdate{Minutes: 0, Seconds: 15, State: VisualWarning}, rec.last())

	result, err := timer.ConfirmStop()
	require.NoError(t, err)
	assert.Equal(t, 45, result.TotalTimeSec)
}

func TestTimerClock_RestoreIdle(t *testing.T) {
	timer, clock, _ := newTestTimer(t)
	timer.Restore(TimerState{})
	assert.True(t, timer.State().IsIdle())
	assert.Equal(t, 0, clock.Pending())
}

func TestElapsedSec(t *testing.T) {
	assert.Equal(t, 0, elapsedSec(1000, 1999))
	assert.Equal(t, 1, elapsedSec(1000, 2000))
	assert.Equal(t, -1, elapsedSec(2000, 1500))
}

func TestTimerState_AsOf(t *testing.T) {
	start := testEpoch.UnixMilli()

	running := TimerState{StartTimeMs: start, InitialDurationSec: 60, IsRunning: true}
	before := running.AsOf(testEpoch.Add(59 * time.Second))
	assert.False(t, before.IsOvertime)
	assert.Nil(t, before.OvertimeStartMs)

	after := running.AsOf(testEpoch.Add(90 * time.Second))
	assert.True(t, after.IsOvertime)
	require.NotNil(t, after.OvertimeStartMs)
	assert.Equal(t, start+60000, *after.OvertimeStartMs)
	assert.Nil(t, running.OvertimeStartMs, "receiver left unchanged")

	pause := start + 30000
	paused := TimerState{StartTimeMs: start, InitialDurationSec: 60, PauseTimeMs: &pause}
	assert.False(t, paused.AsOf(testEpoch.Add(time.Hour)).IsOvertime, "paused state judged at the pause")

	assert.Equal(t, TimerState{}, TimerState{}.AsOf(testEpoch))
}

func TestTimerState_DisplayAt(t *testing.T) {
	start := testEpoch.UnixMilli()
	s := TimerState{StartTimeMs: start, InitialDurationSec: 120, IsRunning: true}.AsOf(testEpoch.Add(200 * time.Second))

	d := s.DisplayAt(testEpoch.Add(200 * time.Second))
	assert.Equal(t, VisualOvertime, d.State)
	assert.Equal(t, 1, d.Minutes)
	assert.Equal(t, 20, d.Seconds)
	assert.Equal(t, OvertimeIntensity(80*time.Second), d.Intensity)

	assert.Equal(t, DisplayUpdate{State: VisualNormal}, TimerState{}.DisplayAt(testEpoch))
}
