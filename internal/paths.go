package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	dataDirName    = ".timekeeper"
	databaseName   = "timekeeper.db"
	configBaseName = "config"
	logFileName    = "timekeeper.log"
)

// DataPaths holds the locations timekeeper reads and writes
type DataPaths struct {
	BaseDir  string // data directory
	Database string // SQLite key-value file
	Config   string // default config file
	LogFile  string // log file used while the TUI owns the terminal
}

// DetectDataPaths returns the default paths for the current user. On Linux
// $XDG_DATA_HOME is honoured when set.
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	base := filepath.Join(home, dataDirName)
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = filepath.Join(xdg, "timekeeper")
		}
	case "darwin", "windows":
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return DataPathsAt(base), nil
}

// DataPathsAt returns the layout rooted at base
func DataPathsAt(base string) DataPaths {
	return DataPaths{
		BaseDir:  base,
		Database: filepath.Join(base, databaseName),
		Config:   filepath.Join(base, configBaseName+".yaml"),
		LogFile:  filepath.Join(base, logFileName),
	}
}

// ResolveDataPaths applies a custom storage location. A path ending in .db
// names the database file itself; anything else is a data directory.
func ResolveDataPaths(custom string) (DataPaths, error) {
	if custom == "" {
		return DetectDataPaths()
	}
	if filepath.Ext(custom) == ".db" {
		paths := DataPathsAt(filepath.Dir(custom))
		paths.Database = custom
		return paths, nil
	}
	return DataPathsAt(custom), nil
}

// DatabaseExists checks if the database file is present
func (p DataPaths) DatabaseExists() bool {
	_, err := os.Stat(p.Database)
	return err == nil
}

// EnsureBaseDir creates the data directory
func (p DataPaths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir, 0755)
}
