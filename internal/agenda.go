package internal

import "fmt"

// ActiveTarget is where the sequencer loads the current speaker. TimerClock
// satisfies it.
type ActiveTarget interface {
	Active() ActiveFields
	SetActive(f ActiveFields) error
}

// AgendaSequencer walks an ordered list of speakers, loading each one into
// the timer in turn
type AgendaSequencer struct {
	entries []AgendaEntry
	index   int
	active  bool

	target  ActiveTarget
	sched   Scheduler
	pending Task

	onChange func()
}

// NewAgendaSequencer creates a sequencer over entries. An empty list leaves
// agenda mode off for the whole session; otherwise the first speaker is
// loaded immediately.
func NewAgendaSequencer(entries []AgendaEntry, target ActiveTarget, sched Scheduler) *AgendaSequencer {
	a := &AgendaSequencer{
		entries: append([]AgendaEntry(nil), entries...),
		target:  target,
		sched:   sched,
	}
	if len(a.entries) > 0 {
		a.active = true
		if err := a.Activate(0); err != nil {
			LogWarn("Failed to load first agenda speaker: %v", err)
		}
	}
	return a
}

// OnChange registers a callback fired whenever the current speaker or mode changes
func (a *AgendaSequencer) OnChange(fn func()) {
	a.onChange = fn
}

// IsActive reports whether agenda mode is on
func (a *AgendaSequencer) IsActive() bool {
	return a.active
}

// CurrentIndex returns the index of the current speaker
func (a *AgendaSequencer) CurrentIndex() int {
	return a.index
}

// Len returns the number of speakers on the agenda
func (a *AgendaSequencer) Len() int {
	return len(a.entries)
}

// Advancing reports whether a move to the next speaker is scheduled
func (a *AgendaSequencer) Advancing() bool {
	return a.pending != nil
}

// Entries returns a copy of the agenda
func (a *AgendaSequencer) Entries() []AgendaEntry {
	return append([]AgendaEntry(nil), a.entries...)
}

// Activate makes entry index current and loads it into the timer fields
// without starting the clock
func (a *AgendaSequencer) Activate(index int) error {
	if !a.active || index < 0 || index >= len(a.entries) {
		return fmt.Errorf("%w: %d of %d", ErrAgendaIndex, index, len(a.entries))
	}
	if err := a.target.SetActive(FieldsFromEntry(a.entries[index])); err != nil {
		return err
	}
	a.index = index
	LogDebug("Agenda speaker %d/%d: %s", index+1, len(a.entries), a.entries[index].Name)
	a.changed()
	return nil
}

// SyncLiveEdit writes edited fields back into the current entry while
// agenda mode is on
func (a *AgendaSequencer) SyncLiveEdit(f ActiveFields) {
	if !a.active || a.index < 0 || a.index >= len(a.entries) {
		return
	}
	a.entries[a.index] = f.Entry()
}

// Advance schedules the move to the next speaker, or the end of the agenda,
// one AdvanceDelay after a confirmed stop
func (a *AgendaSequencer) Advance() {
	if !a.active {
		return
	}
	a.cancelPending()

	if a.index < len(a.entries)-1 {
		next := a.index + 1
		a.pending = a.sched.After(AdvanceDelay, func() {
			a.pending = nil
			if err := a.Activate(next); err != nil {
				LogWarn("Failed to advance agenda: %v", err)
			}
		})
		return
	}

	a.pending = a.sched.After(AdvanceDelay, func() {
		a.pending = nil
		a.Deactivate()
	})
}

// Deactivate ends agenda mode: the speaker list is dropped and the timer
// returns to free-form 10:00
func (a *AgendaSequencer) Deactivate() {
	a.cancelPending()
	a.active = false
	a.index = 0
	a.entries = nil
	if err := a.target.SetActive(DefaultFields()); err != nil {
		LogWarn("Failed to reset fields after agenda: %v", err)
	}
	LogInfo("Agenda finished, back to free-form timing")
	a.changed()
}

// RestorePosition reapplies a saved position without touching the timer
// fields, which the snapshot restores itself
func (a *AgendaSequencer) RestorePosition(index int, active bool) {
	if !active || len(a.entries) == 0 {
		a.active = false
		return
	}
	a.active = true
	if index >= 0 && index < len(a.entries) {
		a.index = index
	}
}

// Stop cancels a scheduled advance
func (a *AgendaSequencer) Stop() {
	a.cancelPending()
}

func (a *AgendaSequencer) cancelPending() {
	if a.pending != nil {
		a.pending.Cancel()
		a.pending = nil
	}
}

func (a *AgendaSequencer) changed() {
	if a.onChange != nil {
		a.onChange()
	}
}
