package internal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const recordTimestampLayout = "2006-01-02 15:04:05"

// Key is a keyboard shortcut the Keeper understands
type Key int

const (
	KeySpace Key = iota
	KeyEscape
	KeyEnter
)

// KeeperOptions configures a Keeper
type KeeperOptions struct {
	Clock     Clock
	Scheduler Scheduler
	Store     *PersistenceStore
	// Agenda is the speaker list; empty means free-form timing
	Agenda []AgendaEntry
	// Fields are the initial free-form fields, ignored when an agenda is set
	Fields  *ActiveFields
	OnEvent func(Event)
	// NewID generates record IDs; defaults to random UUIDs
	NewID func() string
}

// Keeper owns one timer, its history and its agenda, and is the single
// entry point a UI drives. It is not safe for concurrent use: every method
// and every scheduled callback must run on the same goroutine.
type Keeper struct {
	clock  Clock
	store  *PersistenceStore
	timer  *TimerClock
	agenda *AgendaSequencer

	records     []HistoryRecord
	pending     PendingAction
	deleteIndex int

	onEvent func(Event)
	newID   func() string
}

// NewKeeper wires a timer, agenda and store together and loads the saved
// history. Call Restore to resume a saved session.
func NewKeeper(opts KeeperOptions) *Keeper {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}

	k := &Keeper{
		clock:   opts.Clock,
		store:   opts.Store,
		onEvent: opts.OnEvent,
		newID:   opts.NewID,
	}

	k.timer = NewTimerClock(opts.Clock, opts.Scheduler)
	if opts.Fields != nil {
		_ = k.timer.SetActive(*opts.Fields)
	}
	k.timer.OnDisplay(func(d DisplayUpdate) { k.emit(DisplayEvent{Display: d}) })
	k.timer.OnOvertime(k.persist)

	k.agenda = NewAgendaSequencer(opts.Agenda, k.timer, opts.Scheduler)
	k.agenda.OnChange(func() {
		k.emitFields()
		k.persist()
	})

	k.records = k.store.LoadHistory()
	return k
}

// SetEventHandler replaces the event sink
func (k *Keeper) SetEventHandler(fn func(Event)) {
	k.onEvent = fn
}

// Restore resumes a saved session, if a fresh one exists. A running timer
// keeps counting from its original start; a timer that was waiting on a stop
// confirmation asks again. It reports whether anything was restored.
func (k *Keeper) Restore() bool {
	snap, ok := k.store.LoadSnapshot()
	if !ok {
		return false
	}

	k.agenda.RestorePosition(snap.CurrentSpeakerIndex, snap.IsAgendaMode)
	if err := k.timer.SetActive(snap.Fields()); err != nil {
		LogWarn("Failed to restore fields: %v", err)
	}
	k.emitFields()
	k.timer.Restore(snap.TimerState)

	switch {
	case snap.IsRunning:
		LogInfo("Resumed running timer for %s", SpeakerLabel(snap.SpeakerName))
	case snap.PauseTimeMs != nil:
		LogInfo("Restored timer awaiting stop confirmation")
		k.raise(ActionStop)
	}

	k.persist()
	return true
}

// Start begins timing the active speaker. It is refused while the agenda
// is between speakers.
func (k *Keeper) Start() error {
	if k.pending != ActionNone || k.agenda.Advancing() {
		return ErrTimerBusy
	}
	fields := k.timer.Active()
	if err := k.timer.Start(fields.DurationSec()); err != nil {
		if errors.Is(err, ErrInvalidDuration) {
			k.notify(NoticeError, msgInvalidDuration)
		}
		return err
	}
	LogDebug("Started %s for %ds", SpeakerLabel(fields.Name), fields.DurationSec())
	k.timer.Tick()
	k.persist()
	return nil
}

// RequestStop pauses the timer and asks for confirmation
func (k *Keeper) RequestStop() error {
	if err := k.timer.RequestStop(); err != nil {
		return err
	}
	k.raise(ActionStop)
	k.persist()
	return nil
}

// Toggle starts an idle timer or requests a stop of a running one
func (k *Keeper) Toggle() error {
	if k.timer.State().IsRunning {
		return k.RequestStop()
	}
	return k.Start()
}

// RequestDeleteRecord asks to remove the record at index
func (k *Keeper) RequestDeleteRecord(index int) error {
	if index < 0 || index >= len(k.records) {
		return fmt.Errorf("%w: %d of %d", ErrRecordIndex, index, len(k.records))
	}
	if k.pending != ActionNone {
		return ErrTimerBusy
	}
	k.deleteIndex = index
	k.raise(ActionDeleteRecord)
	return nil
}

// RequestClearRecords asks to remove every record
func (k *Keeper) RequestClearRecords() error {
	if k.pending != ActionNone {
		return ErrTimerBusy
	}
	k.raise(ActionClearRecords)
	return nil
}

// Confirm resolves the open confirmation positively
func (k *Keeper) Confirm() error {
	action := k.pending
	k.pending = ActionNone

	switch action {
	case ActionStop:
		return k.finishStop()
	case ActionDeleteRecord:
		k.records = append(k.records[:k.deleteIndex:k.deleteIndex], k.records[k.deleteIndex+1:]...)
		k.saveHistory()
		return nil
	case ActionClearRecords:
		k.records = []HistoryRecord{}
		k.saveHistory()
		return nil
	default:
		return ErrNothingPending
	}
}

// Cancel dismisses the open confirmation. A cancelled stop resumes the
// timer as if the pause never happened.
func (k *Keeper) Cancel() error {
	action := k.pending
	k.pending = ActionNone

	switch action {
	case ActionStop:
		if err := k.timer.CancelStop(); err != nil {
			return err
		}
		k.persist()
		return nil
	case ActionNone:
		return ErrNothingPending
	default:
		return nil
	}
}

// Reset returns the timer to idle and forgets the saved session. Outside
// agenda mode the speaker name is cleared.
func (k *Keeper) Reset() {
	if k.pending == ActionStop {
		k.pending = ActionNone
	}
	k.timer.Reset()
	k.store.ClearSnapshot()

	if !k.agenda.IsActive() {
		fields := k.timer.Active()
		fields.Name = ""
		_ = k.timer.SetActive(fields)
		k.emitFields()
	}
}

// EditFields changes the active label and duration. In agenda mode the edit
// is written back into the current agenda entry.
func (k *Keeper) EditFields(f ActiveFields) error {
	if k.agenda.Advancing() {
		return ErrTimerBusy
	}
	if err := k.timer.SetActive(f); err != nil {
		return err
	}
	k.agenda.SyncLiveEdit(k.timer.Active())
	k.emitFields()
	k.persist()
	return nil
}

// HandleKey maps keyboard shortcuts: space toggles start/stop, escape
// cancels an open prompt or resets an idle timer, enter confirms
func (k *Keeper) HandleKey(key Key) error {
	switch key {
	case KeySpace:
		if k.pending != ActionNone {
			return nil
		}
		return k.Toggle()
	case KeyEscape:
		if k.pending != ActionNone {
			return k.Cancel()
		}
		if !k.timer.State().IsRunning {
			k.Reset()
		}
		return nil
	case KeyEnter:
		if k.pending != ActionNone {
			return k.Confirm()
		}
		return nil
	default:
		return nil
	}
}

// Shutdown saves the session and stops every scheduled callback. The saved
// state keeps the timer "running" so the next start resumes it.
func (k *Keeper) Shutdown() {
	k.persist()
	k.timer.cancelTick()
	k.agenda.Stop()
}

// Records returns a copy of the history in chronological order
func (k *Keeper) Records() []HistoryRecord {
	return append([]HistoryRecord(nil), k.records...)
}

// Pending returns the action awaiting confirmation
func (k *Keeper) Pending() PendingAction {
	return k.pending
}

// PendingRecord returns the index of the record a pending delete targets
func (k *Keeper) PendingRecord() (int, bool) {
	if k.pending != ActionDeleteRecord {
		return 0, false
	}
	return k.deleteIndex, true
}

// Display returns the current clock face
func (k *Keeper) Display() DisplayUpdate {
	return k.timer.Display()
}

// State returns the timer state
func (k *Keeper) State() TimerState {
	return k.timer.State()
}

// Fields returns the active label and duration
func (k *Keeper) Fields() ActiveFields {
	return k.timer.Active()
}

// Agenda returns the sequencer
func (k *Keeper) Agenda() *AgendaSequencer {
	return k.agenda
}

// Snapshot builds the persisted form of the current session
func (k *Keeper) Snapshot() Snapshot {
	fields := k.timer.Active()
	return Snapshot{
		TimerState:          k.timer.State(),
		CurrentSpeakerIndex: k.agenda.CurrentIndex(),
		IsAgendaMode:        k.agenda.IsActive(),
		SpeakerName:         fields.Name,
		Minutes:             fields.Minutes,
		Seconds:             fields.Seconds,
		SavedAtMs:           unixMilli(k.clock),
	}
}

func (k *Keeper) finishStop() error {
	fields := k.timer.Active()
	result, err := k.timer.ConfirmStop()
	if err != nil {
		return err
	}

	record := HistoryRecord{
		ID:           k.newID(),
		SpeakerName:  SpeakerLabel(fields.Name),
		TotalTimeSec: result.TotalTimeSec,
		OvertimeSec:  result.OvertimeSec,
		Timestamp:    k.clock.Now().Format(recordTimestampLayout),
	}
	k.records = append(k.records, record)
	LogInfo("Recorded %s: %s (overtime %s)", record.SpeakerName, FormatClock(record.TotalTimeSec), FormatClock(record.OvertimeSec))
	k.saveHistory()

	k.Reset()
	if k.agenda.IsActive() {
		k.agenda.Advance()
		k.persist()
	}
	return nil
}

func (k *Keeper) saveHistory() {
	if err := k.store.SaveHistory(k.records); err != nil {
		if IsQuotaExceeded(err) {
			k.notify(NoticeError, msgQuotaExceeded)
		} else {
			k.notify(NoticeError, msgCannotSave)
		}
	}
	k.emit(HistoryEvent{Records: k.Records()})
}

// persist saves the session snapshot. Only a full store is worth telling
// the user about; the timer keeps running whatever happens.
func (k *Keeper) persist() {
	snap := k.Snapshot()
	if snap.StartTimeMs == 0 && !snap.IsAgendaMode {
		k.store.ClearSnapshot()
		return
	}
	if err := k.store.SaveSnapshot(snap); err != nil && IsQuotaExceeded(err) {
		k.notify(NoticeWarning, msgQuotaExceeded)
	}
}

func (k *Keeper) raise(action PendingAction) {
	k.pending = action
	k.emit(ConfirmEvent{Action: action, Prompt: action.Prompt()})
}

func (k *Keeper) notify(level NoticeLevel, msg string) {
	k.emit(NoticeEvent{Level: level, Message: msg})
}

func (k *Keeper) emitFields() {
	k.emit(FieldsEvent{
		Fields:     k.timer.Active(),
		AgendaMode: k.agenda.IsActive(),
		Index:      k.agenda.CurrentIndex(),
	})
}

func (k *Keeper) emit(e Event) {
	if k.onEvent != nil {
		k.onEvent(e)
	}
}
