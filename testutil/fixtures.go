package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SampleHistoryJSON is a persisted history of two records
const SampleHistoryJSON = `[
  {"id":"r1","speakerName":"Alice","totalTimeSec":598,"overtimeSec":0,"timestamp":"2026-10-19 09:10:00"},
  {"id":"r2","speakerName":"Bob \"the builder\"","totalTimeSec":650,"overtimeSec":50,"timestamp":"2026-10-19 09:21:00"}
]`

// SampleAgendaYAML is a three speaker agenda config
const SampleAgendaYAML = `default_minutes: 5
speakers:
  - name: Alice
    minutes: 3
    seconds: 30
  - name: Bob
    minutes: 5
  - name: Carol
    minutes: 2
    seconds: 15
`

// SampleAgendaTOML is the same agenda as SampleAgendaYAML in TOML
const SampleAgendaTOML = `default_minutes = 5

[[speakers]]
name = "Alice"
minutes = 3
seconds = 30

[[speakers]]
name = "Bob"
minutes = 5

[[speakers]]
name = "Carol"
minutes = 2
seconds = 15
`

// CreateSQLiteFixture creates a database file at dbPath holding SampleHistoryJSON
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createKVTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO timekeeperKV (key, value) VALUES (?, ?)", "timekeeper.history", SampleHistoryJSON); err != nil {
		t.Fatalf("Failed to insert history: %v", err)
	}
}
