package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/timekeeper/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing database",
			setup: func(t *testing.T) string {
				tmpDir := testutil.CreateTempDir(t)
				dbPath := filepath.Join(tmpDir, "test.db")
				testutil.CreateSQLiteFixture(t, dbPath)
				return dbPath
			},
			wantErr: false,
		},
		{
			name: "new database in missing directory",
			setup: func(t *testing.T) string {
				tmpDir := testutil.CreateTempDir(t)
				return filepath.Join(tmpDir, "nested", "dir", "timekeeper.db")
			},
			wantErr: false,
		},
		{
			name: "in memory",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if db == nil {
					t.Error("OpenDatabase() returned nil database")
					return
				}
				if _, err := QueryKV(db, "%"); err != nil {
					t.Errorf("timekeeperKV table should exist: %v", err)
				}
				db.Close()
			}
		})
	}
}

func TestQueryKV(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertKV(t, db, "timekeeper.history", "[]")
	testutil.InsertKV(t, db, "timekeeper.snapshot", "{}")
	testutil.InsertKV(t, db, "other.key", "x")

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "timekeeper keys", pattern: "timekeeper.%", want: 2},
		{name: "all keys", pattern: "%", want: 3},
		{name: "no match", pattern: "missing.%", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := QueryKV(db, tt.pattern)
			if err != nil {
				t.Fatalf("QueryKV() error = %v", err)
			}
			if len(pairs) != tt.want {
				t.Errorf("QueryKV() returned %d pairs, want %d", len(pairs), tt.want)
			}
		})
	}
}

func TestQueryKV_NullValues(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertKV(t, db, "test:key1", nil)
	testutil.InsertKV(t, db, "test:key2", "value2")

	pairs, err := QueryKV(db, "test:%")
	if err != nil {
		t.Fatalf("QueryKV() error = %v", err)
	}

	if len(pairs) != 1 {
		t.Fatalf("QueryKV() returned %d pairs, want 1", len(pairs))
	}
	if pairs[0].Key != "test:key2" {
		t.Errorf("QueryKV() returned key %q, want test:key2", pairs[0].Key)
	}
}
