package internal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDuration   = errors.New("invalid duration: must be greater than 0 seconds")
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrTimerBusy         = errors.New("timer is running or awaiting confirmation")
	ErrAgendaIndex       = errors.New("agenda index out of range")
	ErrRecordIndex       = errors.New("record index out of range")
	ErrNoRecords         = errors.New("no records to export")
	ErrNothingPending    = errors.New("no confirmation pending")
)

// StorageError represents errors accessing the key-value store
type StorageError struct {
	Key string
	Op  string // "get", "set", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// QuotaExceededError is returned when a write would not fit in the store
type QuotaExceededError struct {
	Key   string
	Size  int64
	Limit int64
	Err   error
}

func (e *QuotaExceededError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("storage quota exceeded writing %s: %d bytes over limit of %d", e.Key, e.Size, e.Limit)
	}
	return fmt.Sprintf("storage quota exceeded writing %s: %v", e.Key, e.Err)
}

func (e *QuotaExceededError) Unwrap() error {
	return e.Err
}

// IsQuotaExceeded reports whether err is, or wraps, a quota failure
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// ParseError represents errors parsing persisted data
type ParseError struct {
	Source string // "history", "snapshot", "config"
	Key    string // storage key or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ConfigError represents an unreadable or invalid configuration file
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
