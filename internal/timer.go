package internal

import (
	"fmt"
	"time"
)

const warningThresholdSec = 60

// DisplayUpdate is emitted on every tick with what the clock face shows
type DisplayUpdate struct {
	Minutes   int
	Seconds   int
	State     VisualState
	Intensity Intensity // zero unless State is VisualOvertime
}

// StopResult is the outcome of a confirmed stop
type StopResult struct {
	TotalTimeSec       int
	OvertimeSec        int
	InitialDurationSec int
}

// TimerClock is the countdown/overtime state machine.
//
// Idle -> Running -> Paused (stop requested) -> Idle on confirm, or back to
// Running on cancel. Overtime is a flag of Running. All times are wall-clock
// epoch milliseconds so a restored snapshot keeps counting while the process
// was gone.
type TimerClock struct {
	clock Clock
	sched Scheduler

	state     TimerState
	fields    ActiveFields
	remaining int
	visual    VisualState
	tick      Task

	onDisplay  func(DisplayUpdate)
	onOvertime func()
}

// NewTimerClock creates an idle timer with the default 10:00 fields
func NewTimerClock(clock Clock, sched Scheduler) *TimerClock {
	return &TimerClock{
		clock:  clock,
		sched:  sched,
		fields: DefaultFields(),
	}
}

// OnDisplay registers the display listener
func (t *TimerClock) OnDisplay(fn func(DisplayUpdate)) {
	t.onDisplay = fn
}

// OnOvertime registers a callback fired once when the countdown crosses zero
func (t *TimerClock) OnOvertime(fn func()) {
	t.onOvertime = fn
}

// State returns a copy of the timing state
func (t *TimerClock) State() TimerState {
	s := t.state
	s.OvertimeStartMs = copyMs(s.OvertimeStartMs)
	s.PauseTimeMs = copyMs(s.PauseTimeMs)
	return s
}

// Active returns the label and duration the next Start will use
func (t *TimerClock) Active() ActiveFields {
	return t.fields
}

// SetActive replaces the active label and duration. Refused unless idle.
func (t *TimerClock) SetActive(f ActiveFields) error {
	if !t.state.IsIdle() {
		return ErrTimerBusy
	}
	t.fields = f.Normalize()
	return nil
}

// Start begins counting down from durationSec
func (t *TimerClock) Start(durationSec int) error {
	if !t.state.IsIdle() {
		return fmt.Errorf("%w: start while running or paused", ErrInvalidTransition)
	}
	if durationSec <= 0 {
		return ErrInvalidDuration
	}

	t.state = TimerState{
		StartTimeMs:        unixMilli(t.clock),
		InitialDurationSec: durationSec,
		IsRunning:          true,
	}
	t.remaining = durationSec
	t.visual = VisualNormal
	t.startTick()
	return nil
}

// Tick recomputes the remaining time and emits a display update
func (t *TimerClock) Tick() {
	if !t.state.IsRunning {
		return
	}

	now := unixMilli(t.clock)
	elapsed := elapsedSec(t.state.StartTimeMs, now)

	if !t.state.IsOvertime {
		t.remaining = t.state.InitialDurationSec - elapsed
		switch {
		case t.remaining <= 0:
			t.state.IsOvertime = true
			t.state.OvertimeStartMs = &now
			t.remaining = abs(t.remaining)
			t.visual = VisualOvertime
			LogDebug("timer entered overtime after %ds", elapsed)
			if t.onOvertime != nil {
				t.onOvertime()
			}
		case t.remaining <= warningThresholdSec:
			t.visual = VisualWarning
		default:
			t.visual = VisualNormal
		}
	} else {
		t.remaining = abs(t.state.InitialDurationSec - elapsed)
		t.visual = VisualOvertime
	}

	t.emit(t.state.displayAt(now))
}

// RequestStop freezes the clock pending confirmation
func (t *TimerClock) RequestStop() error {
	if !t.state.IsRunning {
		return fmt.Errorf("%w: stop requested while not running", ErrInvalidTransition)
	}
	t.cancelTick()
	now := unixMilli(t.clock)
	t.state.PauseTimeMs = &now
	t.state.IsRunning = false
	t.emit(t.Display())
	return nil
}

// ConfirmStop finalizes a requested stop and returns the timer to idle
func (t *TimerClock) ConfirmStop() (StopResult, error) {
	if t.state.PauseTimeMs == nil {
		return StopResult{}, fmt.Errorf("%w: confirm without a pending stop", ErrInvalidTransition)
	}

	total := elapsedSec(t.state.StartTimeMs, *t.state.PauseTimeMs)
	result := StopResult{
		TotalTimeSec:       total,
		OvertimeSec:        max(0, total-t.state.InitialDurationSec),
		InitialDurationSec: t.state.InitialDurationSec,
	}
	t.Reset()
	return result, nil
}

// CancelStop resumes counting; the paused interval is excluded from elapsed time
func (t *TimerClock) CancelStop() error {
	if t.state.PauseTimeMs == nil {
		return fmt.Errorf("%w: cancel without a pending stop", ErrInvalidTransition)
	}
	now := unixMilli(t.clock)
	t.state.StartTimeMs += now - *t.state.PauseTimeMs
	t.state.PauseTimeMs = nil
	t.state.IsRunning = true
	t.startTick()
	return nil
}

// Reset forces the timer back to idle
func (t *TimerClock) Reset() {
	t.cancelTick()
	t.state = TimerState{}
	t.remaining = 0
	t.visual = VisualNormal
	t.emit(DisplayUpdate{State: VisualNormal})
}

// Restore resumes from a persisted state. A running state re-derives overtime
// in case the deadline passed while nothing was watching, ticks once and
// resumes ticking. A paused state only redraws the frozen display.
func (t *TimerClock) Restore(s TimerState) {
	t.cancelTick()
	if s.IsRunning {
		s.PauseTimeMs = nil
	}
	t.state = s.AsOf(t.clock.Now())

	switch {
	case t.state.IsRunning:
		if t.state.IsOvertime {
			t.visual = VisualOvertime
		}
		t.Tick()
		t.startTick()
	case t.state.PauseTimeMs != nil:
		t.emit(t.Display())
	default:
		t.Reset()
	}
}

// Display returns what the clock face shows right now. While paused the
// display is frozen at the pause instant.
func (t *TimerClock) Display() DisplayUpdate {
	return t.state.DisplayAt(t.clock.Now())
}

// Remaining returns the seconds shown on the clock face (counting up in overtime)
func (t *TimerClock) Remaining() int {
	d := t.Display()
	return d.Minutes*60 + d.Seconds
}

// AsOf returns the state as a ticking timer would have left it at now.
// Overtime that began while nothing was ticking is dated from the deadline.
func (s TimerState) AsOf(now time.Time) TimerState {
	s.OvertimeStartMs = copyMs(s.OvertimeStartMs)
	s.PauseTimeMs = copyMs(s.PauseTimeMs)
	if s.StartTimeMs == 0 || s.IsIdle() {
		return s
	}

	at := now.UnixMilli()
	if s.PauseTimeMs != nil {
		at = *s.PauseTimeMs
	}
	if !s.IsOvertime && elapsedSec(s.StartTimeMs, at) >= s.InitialDurationSec {
		s.IsOvertime = true
	}
	if s.IsOvertime && s.OvertimeStartMs == nil {
		deadline := s.StartTimeMs + int64(s.InitialDurationSec)*1000
		s.OvertimeStartMs = &deadline
	}
	return s
}

// DisplayAt returns the clock face for s at now: frozen at the pause instant
// while paused, zero when idle
func (s TimerState) DisplayAt(now time.Time) DisplayUpdate {
	switch {
	case s.PauseTimeMs != nil:
		return s.displayAt(*s.PauseTimeMs)
	case s.IsRunning:
		return s.displayAt(now.UnixMilli())
	default:
		return DisplayUpdate{State: VisualNormal}
	}
}

func (s TimerState) displayAt(atMs int64) DisplayUpdate {
	elapsed := elapsedSec(s.StartTimeMs, atMs)
	remaining := s.InitialDurationSec - elapsed

	d := DisplayUpdate{}
	switch {
	case s.IsOvertime || remaining <= 0:
		remaining = abs(remaining)
		d.State = VisualOvertime
		if s.OvertimeStartMs != nil {
			d.Intensity = OvertimeIntensity(time.Duration(atMs-*s.OvertimeStartMs) * time.Millisecond)
		} else {
			d.Intensity = OvertimeIntensity(0)
		}
	case remaining <= warningThresholdSec:
		d.State = VisualWarning
	default:
		d.State = VisualNormal
	}
	d.Minutes = remaining / 60
	d.Seconds = remaining % 60
	return d
}

func (t *TimerClock) startTick() {
	t.cancelTick()
	t.tick = t.sched.Every(TickInterval, t.Tick)
}

func (t *TimerClock) cancelTick() {
	if t.tick != nil {
		t.tick.Cancel()
		t.tick = nil
	}
}

func (t *TimerClock) emit(d DisplayUpdate) {
	if t.onDisplay != nil {
		t.onDisplay(d)
	}
}

// elapsedSec floors (to - from) milliseconds to whole seconds
func elapsedSec(fromMs, toMs int64) int {
	diff := toMs - fromMs
	if diff < 0 {
		// floor toward negative infinity like the wall clock would
		return int((diff - 999) / 1000)
	}
	return int(diff / 1000)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func copyMs(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
