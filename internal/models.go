package internal

import (
	"fmt"
	"strings"
)

const (
	// MaxMinutes is the largest minutes value the active fields accept
	MaxMinutes = 999
	// DefaultMinutes is the free-form duration used after an agenda finishes
	DefaultMinutes = 10
	// UnnamedSpeaker replaces a blank speaker name in history records
	UnnamedSpeaker = "Unnamed"
)

// TimerState is the timing part of the clock that survives a restart
type TimerState struct {
	StartTimeMs        int64  `json:"startTimeMs"`
	InitialDurationSec int    `json:"initialDurationSec"`
	IsRunning          bool   `json:"isRunning"`
	IsOvertime         bool   `json:"isOvertime"`
	OvertimeStartMs    *int64 `json:"overtimeStartMs"`
	PauseTimeMs        *int64 `json:"pauseTimeMs"`
}

// IsPaused reports whether a stop was requested but not yet resolved
func (s TimerState) IsPaused() bool {
	return s.PauseTimeMs != nil
}

// IsIdle reports whether no countdown is in progress
func (s TimerState) IsIdle() bool {
	return !s.IsRunning && s.PauseTimeMs == nil
}

// HistoryRecord is one finished speaking slot
type HistoryRecord struct {
	ID           string `json:"id" yaml:"id"`
	SpeakerName  string `json:"speakerName" yaml:"speaker_name"`
	TotalTimeSec int    `json:"totalTimeSec" yaml:"total_time_sec"`
	OvertimeSec  int    `json:"overtimeSec" yaml:"overtime_sec"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
}

// OvertimeLabel returns "on time" or the overtime as "+m:ss"
func (r HistoryRecord) OvertimeLabel() string {
	if r.OvertimeSec <= 0 {
		return "on time"
	}
	return "+" + FormatClock(r.OvertimeSec)
}

// AgendaEntry is one speaker on a pre-configured agenda
type AgendaEntry struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Minutes int    `json:"minutes" yaml:"minutes" toml:"minutes"`
	Seconds int    `json:"seconds" yaml:"seconds" toml:"seconds"`
}

// DurationSec returns the entry's slot length in seconds
func (e AgendaEntry) DurationSec() int {
	return e.Minutes*60 + e.Seconds
}

// ActiveFields holds the label and duration the next Start will use
type ActiveFields struct {
	Name    string
	Minutes int
	Seconds int
}

// DefaultFields returns the free-form fields: no name, 10:00
func DefaultFields() ActiveFields {
	return ActiveFields{Minutes: DefaultMinutes}
}

// Normalize clamps minutes to 0..999 and seconds to 0..59
func (f ActiveFields) Normalize() ActiveFields {
	f.Minutes = clamp(f.Minutes, 0, MaxMinutes)
	f.Seconds = clamp(f.Seconds, 0, 59)
	return f
}

// DurationSec returns the configured duration in seconds
func (f ActiveFields) DurationSec() int {
	n := f.Normalize()
	return n.Minutes*60 + n.Seconds
}

// Entry converts the fields to an agenda entry
func (f ActiveFields) Entry() AgendaEntry {
	n := f.Normalize()
	return AgendaEntry{Name: f.Name, Minutes: n.Minutes, Seconds: n.Seconds}
}

// FieldsFromEntry converts an agenda entry to active fields
func FieldsFromEntry(e AgendaEntry) ActiveFields {
	return ActiveFields{Name: e.Name, Minutes: e.Minutes, Seconds: e.Seconds}.Normalize()
}

// Snapshot is the persisted form of a session in progress
type Snapshot struct {
	TimerState
	CurrentSpeakerIndex int    `json:"currentSpeakerIndex"`
	IsAgendaMode        bool   `json:"isAgendaMode"`
	SpeakerName         string `json:"speakerName"`
	Minutes             int    `json:"minutes"`
	Seconds             int    `json:"seconds"`
	SavedAtMs           int64  `json:"savedAtMs"`
}

// Fields returns the active fields stored in the snapshot
func (s Snapshot) Fields() ActiveFields {
	return ActiveFields{Name: s.SpeakerName, Minutes: s.Minutes, Seconds: s.Seconds}
}

// VisualState is how the clock face should be drawn
type VisualState int

const (
	VisualNormal VisualState = iota
	VisualWarning
	VisualOvertime
)

func (v VisualState) String() string {
	switch v {
	case VisualWarning:
		return "warning"
	case VisualOvertime:
		return "overtime"
	default:
		return "normal"
	}
}

// FormatClock renders seconds as m:ss, used by history and export
func FormatClock(totalSec int) string {
	if totalSec < 0 {
		totalSec = -totalSec
	}
	return fmt.Sprintf("%d:%02d", totalSec/60, totalSec%60)
}

// SpeakerLabel trims a name and falls back to UnnamedSpeaker
func SpeakerLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnnamedSpeaker
	}
	return name
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
