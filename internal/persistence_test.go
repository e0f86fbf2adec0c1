package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/timekeeper/testutil"
)

var testEpoch = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*PersistenceStore, *testutil.MemoryKV, *FakeClock) {
	t.Helper()
	kv := testutil.NewMemoryKV()
	clock := NewFakeClock(testEpoch)
	return NewPersistenceStore(kv, clock), kv, clock
}

func TestPersistenceStore_History(t *testing.T) {
	store, kv, _ := newTestStore(t)

	assert.Empty(t, store.LoadHistory())
	assert.NotNil(t, store.LoadHistory())

	records := CreateTestRecords(3)
	require.NoError(t, store.SaveHistory(records))
	assert.Contains(t, kv.Values[HistoryKey], `"speakerName":"Speaker 2"`)
	assert.Equal(t, records, store.LoadHistory())

	require.NoError(t, store.SaveHistory(nil))
	assert.Equal(t, "[]", kv.Values[HistoryKey])
}

func TestPersistenceStore_HistoryFromFixture(t *testing.T) {
	store, kv, _ := newTestStore(t)
	kv.Values[HistoryKey] = testutil.SampleHistoryJSON

	records := store.LoadHistory()
	require.Len(t, records, 2)
	assert.Equal(t, `Bob "the builder"`, records[1].SpeakerName)
	assert.Equal(t, 50, records[1].OvertimeSec)
}

func TestPersistenceStore_LoadHistoryFaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv *testutil.MemoryKV)
	}{
		{
			name:  "corrupt json",
			setup: func(kv *testutil.MemoryKV) { kv.Values[HistoryKey] = "{not json" },
		},
		{
			name:  "read failure",
			setup: func(kv *testutil.MemoryKV) { kv.GetErr = errors.New("io error") },
		},
		{
			name:  "json null",
			setup: func(kv *testutil.MemoryKV) { kv.Values[HistoryKey] = "null" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, kv, _ := newTestStore(t)
			tt.setup(kv)
			records := store.LoadHistory()
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestPersistenceStore_SaveHistoryFailure(t *testing.T) {
	store, kv, _ := newTestStore(t)
	kv.SetErr = &QuotaExceededError{Key: HistoryKey, Limit: 10}

	err := store.SaveHistory(CreateTestRecords(1))
	require.Error(t, err)
	assert.True(t, IsQuotaExceeded(err))
}

func TestPersistenceStore_Snapshot(t *testing.T) {
	store, kv, clock := newTestStore(t)

	overtime := testEpoch.Add(10 * time.Minute).UnixMilli()
	snap := Snapshot{
		TimerState: TimerState{
			StartTimeMs:        testEpoch.UnixMilli(),
			InitialDurationSec: 600,
			IsRunning:          true,
			IsOvertime:         true,
			OvertimeStartMs:    &overtime,
		},
		CurrentSpeakerIndex: 2,
		IsAgendaMode:        true,
		SpeakerName:         "Carol",
		Minutes:             10,
	}
	require.NoError(t, store.SaveSnapshot(snap))
	assert.Contains(t, kv.Values[SnapshotKey], `"isRunning":true`)

	clock.Jump(time.Hour)
	got, ok := store.LoadSnapshot()
	require.True(t, ok)
	assert.Equal(t, testEpoch.UnixMilli(), got.SavedAtMs)
	assert.Equal(t, "Carol", got.SpeakerName)
	assert.Equal(t, 2, got.CurrentSpeakerIndex)
	require.NotNil(t, got.OvertimeStartMs)
	assert.Equal(t, overtime, *got.OvertimeStartMs)
	assert.Nil(t, got.PauseTimeMs)
}

func TestPersistenceStore_SnapshotNothingToSave(t *testing.T) {
	store, kv, _ := newTestStore(t)

	require.NoError(t, store.SaveSnapshot(Snapshot{SpeakerName: "Idle"}))
	assert.Equal(t, 0, kv.Sets)

	_, ok := store.LoadSnapshot()
	assert.False(t, ok)
}

func TestPersistenceStore_StaleSnapshot(t *testing.T) {
	store, kv, clock := newTestStore(t)
	require.NoError(t, store.SaveSnapshot(Snapshot{TimerState: TimerState{StartTimeMs: 1, IsRunning: true, InitialDurationSec: 60}}))

	clock.Jump(SnapshotTTL + time.Minute)
	_, ok := store.LoadSnapshot()
	assert.False(t, ok)
	assert.NotContains(t, kv.Values, SnapshotKey)
}

func TestPersistenceStore_CorruptSnapshot(t *testing.T) {
	store, kv, _ := newTestStore(t)
	kv.Values[SnapshotKey] = "{{{"

	_, ok := store.LoadSnapshot()
	assert.False(t, ok)
	assert.NotContains(t, kv.Values, SnapshotKey)
}

func TestPersistenceStore_SQLite(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewPersistenceStore(NewSQLiteKV(db, 0), NewFakeClock(testEpoch))

	require.NoError(t, store.SaveHistory(CreateTestRecords(2)))
	raw, ok := testutil.ReadKV(t, db, HistoryKey)
	require.True(t, ok)
	assert.Contains(t, raw, "record-2")
	assert.Len(t, store.LoadHistory(), 2)
}
