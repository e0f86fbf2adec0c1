package internal

import (
	"encoding/json"
	"time"
)

const (
	HistoryKey  = "timekeeper.history"
	SnapshotKey = "timekeeper.snapshot"

	// SnapshotTTL is how long a saved session stays restorable
	SnapshotTTL = 12 * time.Hour
)

// PersistenceStore serializes history records and session snapshots into a
// KVStore. Read faults are logged and reported as "no data".
type PersistenceStore struct {
	kv    KVStore
	clock Clock
}

// NewPersistenceStore creates a store over kv
func NewPersistenceStore(kv KVStore, clock Clock) *PersistenceStore {
	return &PersistenceStore{kv: kv, clock: clock}
}

// LoadHistory returns the saved records in chronological order, or an empty
// list when nothing is saved or the data cannot be read
func (p *PersistenceStore) LoadHistory() []HistoryRecord {
	raw, ok, err := p.kv.Get(HistoryKey)
	if err != nil {
		LogError("Failed to load history: %v", err)
		return []HistoryRecord{}
	}
	if !ok || raw == "" {
		return []HistoryRecord{}
	}

	var records []HistoryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		LogError("%v", &ParseError{Source: "history", Key: HistoryKey, Err: err})
		return []HistoryRecord{}
	}
	if records == nil {
		records = []HistoryRecord{}
	}
	return records
}

// SaveHistory replaces the saved record list
func (p *PersistenceStore) SaveHistory(records []HistoryRecord) error {
	if records == nil {
		records = []HistoryRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &ParseError{Source: "history", Key: HistoryKey, Err: err}
	}
	if err := p.kv.Set(HistoryKey, string(data)); err != nil {
		LogError("Failed to save history: %v", err)
		return err
	}
	return nil
}

// SaveSnapshot persists s. Nothing is written when no timer was ever started
// and agenda mode is off. A zero SavedAtMs is stamped with the current time.
func (p *PersistenceStore) SaveSnapshot(s Snapshot) error {
	if s.StartTimeMs == 0 && !s.IsAgendaMode {
		return nil
	}
	if s.SavedAtMs == 0 {
		s.SavedAtMs = unixMilli(p.clock)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return &ParseError{Source: "snapshot", Key: SnapshotKey, Err: err}
	}
	if err := p.kv.Set(SnapshotKey, string(data)); err != nil {
		LogWarn("Failed to save timer state: %v", err)
		return err
	}
	return nil
}

// LoadSnapshot returns the saved snapshot if present, readable and younger
// than SnapshotTTL. Stale or corrupted entries are removed.
func (p *PersistenceStore) LoadSnapshot() (*Snapshot, bool) {
	raw, ok, err := p.kv.Get(SnapshotKey)
	if err != nil {
		LogError("Failed to load timer state: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		LogError("%v", &ParseError{Source: "snapshot", Key: SnapshotKey, Err: err})
		p.ClearSnapshot()
		return nil, false
	}

	age := time.Duration(unixMilli(p.clock)-s.SavedAtMs) * time.Millisecond
	if age > SnapshotTTL {
		LogInfo("Discarding timer state saved %s ago", age.Round(time.Minute))
		p.ClearSnapshot()
		return nil, false
	}

	return &s, true
}

// ClearSnapshot removes the saved snapshot
func (p *PersistenceStore) ClearSnapshot() {
	if err := p.kv.Delete(SnapshotKey); err != nil {
		LogWarn("Failed to clear timer state: %v", err)
	}
}
