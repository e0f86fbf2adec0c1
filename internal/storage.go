package internal

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// KVStore is a durable string key-value slot store
type KVStore interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SQLiteKV stores values in the timekeeperKV table. A positive quota caps
// the total stored bytes; writes past it fail with *QuotaExceededError.
type SQLiteKV struct {
	db         *sql.DB
	quotaBytes int64
}

// NewSQLiteKV creates a KV store over db with an optional byte quota (0 = none)
func NewSQLiteKV(db *sql.DB, quotaBytes int64) *SQLiteKV {
	return &SQLiteKV{db: db, quotaBytes: quotaBytes}
}

// Get returns the value stored under key
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM timekeeperKV WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key, replacing any previous value
func (s *SQLiteKV) Set(key, value string) error {
	if s.quotaBytes > 0 {
		used, err := s.usedBytesExcluding(key)
		if err != nil {
			return &StorageError{Key: key, Op: "set", Err: err}
		}
		size := used + int64(len(key)+len(value))
		if size > s.quotaBytes {
			return &QuotaExceededError{Key: key, Size: size, Limit: s.quotaBytes}
		}
	}

	_, err := s.db.Exec("INSERT INTO timekeeperKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if err != nil {
		if isDiskFull(err) {
			return &QuotaExceededError{Key: key, Err: err}
		}
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM timekeeperKV WHERE key = ?", key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// UsedBytes returns the bytes currently stored across all keys
func (s *SQLiteKV) UsedBytes() (int64, error) {
	return s.usedBytesExcluding("")
}

func (s *SQLiteKV) usedBytesExcluding(key string) (int64, error) {
	var used sql.NullInt64
	err := s.db.QueryRow("SELECT SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))) FROM timekeeperKV WHERE key != ?", key).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to measure store size: %w", err)
	}
	return used.Int64, nil
}

// isDiskFull reports whether SQLite rejected a write because the disk or
// database is full
func isDiskFull(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_FULL
	}
	return false
}
