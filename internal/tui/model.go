package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/timekeeper/internal"
	"github.com/iksnae/timekeeper/internal/export"
)

// callbackMsg carries a scheduled callback onto the program loop
type callbackMsg struct {
	fn func()
}

type blinkMsg struct{}

// Model is the interactive timer screen. It owns the Keeper: every Keeper
// call and every scheduled callback runs inside Update.
type Model struct {
	keeper    *internal.Keeper
	clock     internal.Clock
	exportDir string

	keys keyMap
	help help.Model
	name textinput.Model

	editing  bool
	display  internal.DisplayUpdate
	fields   internal.ActiveFields
	agenda   bool
	index    int
	records  []internal.HistoryRecord
	prompt   string
	notice   *internal.NoticeEvent
	selected int

	blinking bool
	blinkOn  bool
	restored bool
	width    int
}

// Options configures the screen
type Options struct {
	// Clock stamps export file names; defaults to the system clock
	Clock internal.Clock
	// ExportDir receives CSV exports; defaults to the working directory
	ExportDir string
}

// New creates the screen for keeper and subscribes to its events
func New(keeper *internal.Keeper, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = internal.SystemClock{}
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	name := textinput.New()
	name.Placeholder = internal.UnnamedSpeaker
	name.CharLimit = 64
	name.Prompt = ""

	m := &Model{
		keeper:    keeper,
		clock:     opts.Clock,
		exportDir: opts.ExportDir,
		keys:      defaultKeyMap(),
		help:      help.New(),
		name:      name,
		display:   keeper.Display(),
		fields:    keeper.Fields(),
		agenda:    keeper.Agenda().IsActive(),
		index:     keeper.Agenda().CurrentIndex(),
		records:   keeper.Records(),
	}
	keeper.SetEventHandler(m.handleEvent)
	return m
}

// Init resumes a saved session on the program loop
func (m *Model) Init() tea.Cmd {
	m.restored = m.keeper.Restore()
	if m.restored {
		m.setNotice(internal.NoticeInfo, "Restored previous session")
	}
	return m.syncBlink()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case callbackMsg:
		msg.fn()
	case blinkMsg:
		return m, m.blink()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if m.editing {
			cmd = m.updateName(msg)
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			m.keeper.Shutdown()
			return m, tea.Quit
		}
		m.notice = nil
		m.handleKey(msg)
	}

	return m, tea.Batch(cmd, m.syncBlink())
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	if m.keeper.Pending() != internal.ActionNone {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.report(m.keeper.HandleKey(internal.KeyEnter))
		case key.Matches(msg, m.keys.Cancel):
			m.report(m.keeper.HandleKey(internal.KeyEscape))
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.report(m.keeper.HandleKey(internal.KeySpace))
	case key.Matches(msg, m.keys.Reset):
		m.report(m.keeper.HandleKey(internal.KeyEscape))
	case key.Matches(msg, m.keys.EditName):
		if m.keeper.State().IsIdle() {
			m.editing = true
			m.name.SetValue(m.fields.Name)
			m.name.CursorEnd()
			m.name.Focus()
		}
	case key.Matches(msg, m.keys.MinutesUp):
		m.adjust(1, 0)
	case key.Matches(msg, m.keys.MinutesDown):
		m.adjust(-1, 0)
	case key.Matches(msg, m.keys.SecondsUp):
		m.adjust(0, 1)
	case key.Matches(msg, m.keys.SecondsDown):
		m.adjust(0, -1)
	case key.Matches(msg, m.keys.NextRecord):
		m.selectRecord(m.selected + 1)
	case key.Matches(msg, m.keys.PrevRecord):
		m.selectRecord(m.selected - 1)
	case key.Matches(msg, m.keys.Delete):
		m.report(m.keeper.RequestDeleteRecord(m.selected))
	case key.Matches(msg, m.keys.Clear):
		m.report(m.keeper.RequestClearRecords())
	case key.Matches(msg, m.keys.Export):
		m.exportCSV()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

func (m *Model) updateName(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.name.Blur()
		f := m.fields
		f.Name = strings.TrimSpace(m.name.Value())
		m.report(m.keeper.EditFields(f))
		return nil
	case tea.KeyEsc:
		m.editing = false
		m.name.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return cmd
}

// adjust nudges the duration; ignored while the timer is busy
func (m *Model) adjust(minutes, seconds int) {
	if !m.keeper.State().IsIdle() {
		return
	}
	f := m.fields
	f.Minutes += minutes
	f.Seconds += seconds
	if f.Seconds > 59 && f.Minutes < internal.MaxMinutes {
		f.Minutes++
		f.Seconds = 0
	}
	if f.Seconds < 0 && f.Minutes > 0 {
		f.Minutes--
		f.Seconds = 59
	}
	m.report(m.keeper.EditFields(f))
}

func (m *Model) selectRecord(i int) {
	if len(m.records) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(i, 0), len(m.records)-1)
}

func (m *Model) exportCSV() {
	exporter, _ := export.NewExporter("csv")
	path, err := export.WriteFile(exporter, m.keeper.Records(), m.exportDir, m.clock.Now())
	switch {
	case errors.Is(err, internal.ErrNoRecords):
		m.setNotice(internal.NoticeWarning, "No records to export")
	case err != nil:
		internal.LogError("Export failed: %v", err)
		m.setNotice(internal.NoticeError, "Export failed, please try again")
	default:
		m.setNotice(internal.NoticeInfo, fmt.Sprintf("Exported to %s", path))
	}
}

// report surfaces errors the Keeper did not already turn into a notice
func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, internal.ErrInvalidDuration):
	case errors.Is(err, internal.ErrTimerBusy):
		internal.LogDebug("Ignored input while busy: %v", err)
	default:
		m.setNotice(internal.NoticeError, err.Error())
	}
}

func (m *Model) handleEvent(e internal.Event) {
	switch e := e.(type) {
	case internal.DisplayEvent:
		m.display = e.Display
	case internal.ConfirmEvent:
		m.prompt = e.Prompt
	case internal.HistoryEvent:
		m.records = e.Records
		m.selectRecord(m.selected)
	case internal.FieldsEvent:
		m.fields = e.Fields
		m.agenda = e.AgendaMode
		m.index = e.Index
	case internal.NoticeEvent:
		m.notice = &e
	}
}

func (m *Model) setNotice(level internal.NoticeLevel, msg string) {
	m.notice = &internal.NoticeEvent{Level: level, Message: msg}
}

// syncBlink starts the blink loop when the clock enters overtime
func (m *Model) syncBlink() tea.Cmd {
	if m.blinking || m.display.State != internal.VisualOvertime {
		return nil
	}
	m.blinking = true
	return m.nextBlink()
}

func (m *Model) blink() tea.Cmd {
	if m.display.State != internal.VisualOvertime {
		m.blinking = false
		m.blinkOn = false
		return nil
	}
	m.blinkOn = !m.blinkOn
	return m.nextBlink()
}

func (m *Model) nextBlink() tea.Cmd {
	half := m.display.Intensity.BlinkPeriod() / 2
	if half <= 0 {
		half = 500 * time.Millisecond
	}
	return tea.Tick(half, func(time.Time) tea.Msg { return blinkMsg{} })
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("⏱  Timekeeper")
	if m.agenda {
		header += "  " + agendaStyle.Render(fmt.Sprintf("Agenda %d/%d", m.index+1, m.keeper.Agenda().Len()))
	}
	b.WriteString(header + "\n\n")

	speaker := internal.SpeakerLabel(m.fields.Name)
	if m.editing {
		speaker = m.name.View()
	}
	b.WriteString(labelStyle.Render("Speaker:  ") + speaker + "\n")
	b.WriteString(labelStyle.Render("Duration: ") + internal.FormatClock(m.fields.DurationSec()) + "\n\n")

	clock := fmt.Sprintf("%d:%02d", m.display.Minutes, m.display.Seconds)
	if m.keeper.State().IsIdle() {
		clock = internal.FormatClock(m.fields.DurationSec())
	}
	if m.display.State == internal.VisualOvertime {
		clock = "+" + clock
	}
	b.WriteString(clockStyle(m.display, m.blinkOn).Render(clock) + "\n")
	b.WriteString(dimStyle.Render(m.statusLine()) + "\n\n")

	if m.keeper.Pending() != internal.ActionNone {
		b.WriteString(promptStyle.Render(m.prompt) + "\n\n")
	}
	if m.notice != nil {
		b.WriteString(noticeStyles[m.notice.Level].Render(m.notice.Message) + "\n\n")
	}

	b.WriteString(m.historyView() + "\n")

	if m.keeper.Pending() != internal.ActionNone {
		b.WriteString(m.help.View(promptKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) statusLine() string {
	state := m.keeper.State()
	switch {
	case state.IsPaused():
		return "paused, awaiting confirmation"
	case state.IsRunning && m.display.State == internal.VisualOvertime:
		return "overtime"
	case state.IsRunning:
		return "running"
	default:
		return "ready"
	}
}

func (m *Model) historyView() string {
	if len(m.records) == 0 {
		return dimStyle.Render("No records yet")
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Records (%d)", len(m.records)))}
	for i, r := range m.records {
		style := recordStyle
		marker := "  "
		if i == m.selected {
			style = selectedRecordStyle
			marker = "› "
		}
		over := onTimeStyle.Render(r.OvertimeLabel())
		if r.OvertimeSec > 0 {
			over = overRecordStyle.Render(r.OvertimeLabel())
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			style.Render(fmt.Sprintf("%s%2d. %-20s %6s ", marker, i+1, r.SpeakerName, internal.FormatClock(r.TotalTimeSec))),
			over,
			dimStyle.Render("  "+r.Timestamp),
		))
	}
	return strings.Join(lines, "\n")
}
