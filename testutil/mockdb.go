package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS timekeeperKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// CreateInMemoryDB creates an in-memory SQLite database with the
// timekeeperKV table, closed when the test ends
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createKVTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create timekeeperKV table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// InsertKV inserts a raw row, bypassing the store
func InsertKV(t *testing.T, db *sql.DB, key string, value interface{}) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO timekeeperKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

// ReadKV reads a raw row; ok is false when the key is absent
func ReadKV(t *testing.T, db *sql.DB, key string) (value string, ok bool) {
	t.Helper()
	var v sql.NullString
	err := db.QueryRow("SELECT value FROM timekeeperKV WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		t.Fatalf("Failed to read %s: %v", key, err)
	}
	return v.String, v.Valid
}

// MemoryKV is an in-process key-value store whose writes can be made to
// fail, for exercising persistence error paths
type MemoryKV struct {
	Values  map[string]string
	SetErr  error
	GetErr  error
	Sets    int
	Deletes int
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{Values: map[string]string{}}
}

// Get returns the value for key
func (m *MemoryKV) Get(key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

// Set stores value, or fails with SetErr
func (m *MemoryKV) Set(key, value string) error {
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values[key] = value
	return nil
}

// Delete removes key
func (m *MemoryKV) Delete(key string) error {
	m.Deletes++
	delete(m.Values, key)
	return nil
}
