package internal

// PendingAction is the operation waiting on a user confirmation
type PendingAction int

const (
	ActionNone PendingAction = iota
	ActionStop
	ActionDeleteRecord
	ActionClearRecords
)

// Prompt returns the question shown to the user for the action
func (a PendingAction) Prompt() string {
	switch a {
	case ActionStop:
		return "Stop timing?"
	case ActionDeleteRecord:
		return "Delete this record?"
	case ActionClearRecords:
		return "Clear all records? This action cannot be undone!"
	default:
		return ""
	}
}

func (a PendingAction) String() string {
	switch a {
	case ActionStop:
		return "stop"
	case ActionDeleteRecord:
		return "delete-record"
	case ActionClearRecords:
		return "clear-records"
	default:
		return "none"
	}
}

// NoticeLevel classifies a user-visible message
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// Event is anything the Keeper reports to its UI
type Event interface {
	isEvent()
}

// DisplayEvent carries a clock face update
type DisplayEvent struct {
	Display DisplayUpdate
}

// ConfirmEvent asks the UI to show a confirmation prompt
type ConfirmEvent struct {
	Action PendingAction
	Prompt string
}

// HistoryEvent reports that the record list changed
type HistoryEvent struct {
	Records []HistoryRecord
}

// FieldsEvent reports new active fields, e.g. after the agenda advanced
type FieldsEvent struct {
	Fields     ActiveFields
	AgendaMode bool
	Index      int
}

// NoticeEvent is a message the user should see
type NoticeEvent struct {
	Level   NoticeLevel
	Message string
}

func (DisplayEvent) isEvent() {}
func (ConfirmEvent) isEvent() {}
func (HistoryEvent) isEvent() {}
func (FieldsEvent) isEvent()  {}
func (NoticeEvent) isEvent()  {}

const (
	msgInvalidDuration = "Please set a valid time (greater than 0 seconds)."
	msgQuotaExceeded   = "Storage quota exceeded! Please clear some records."
	msgCannotSave      = "Cannot save records. Please check storage settings."
)
