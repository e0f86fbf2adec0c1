package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/iksnae/timekeeper/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "timekeeper",
	Short: "Time speakers against a countdown and keep a record of each slot",
	Long: `A terminal speaker timer for meetings and talks.

Each speaker gets a countdown. When it runs out the clock keeps counting
into overtime, and every confirmed stop is saved to a local history.

Features:
  • Countdown with warning and overtime display
  • Optional agenda that moves through speakers one by one
  • Survives restarts: a running timer resumes where it left off
  • History export (CSV, JSON, JSONL, YAML, Markdown)

Quick Start:
  timekeeper run                          # Start the timer screen
  timekeeper history                      # List recorded slots
  timekeeper export                       # Export records as CSV`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to database file or data directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml, toml or json; default <data dir>/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// environment is the opened config and store shared by every command
type environment struct {
	cfg   *internal.Config
	paths internal.DataPaths
	db    *sql.DB
	kv    *internal.SQLiteKV
	store *internal.PersistenceStore
}

// openEnvironment resolves paths, loads the config and opens the database.
// The --storage flag wins over the config's storage setting.
func openEnvironment() (*environment, error) {
	paths, err := internal.ResolveDataPaths(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get data paths: %w", err)
	}

	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = paths.Config
	}
	cfg, err := internal.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if storagePath == "" && cfg.Storage != "" {
		paths, err = internal.ResolveDataPaths(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to get data paths: %w", err)
		}
	}
	internal.LogDebug("Using database %s", paths.Database)

	db, err := internal.OpenDatabase(paths.Database)
	if err != nil {
		return nil, err
	}

	kv := internal.NewSQLiteKV(db, cfg.QuotaBytes)
	return &environment{
		cfg:   cfg,
		paths: paths,
		db:    db,
		kv:    kv,
		store: internal.NewPersistenceStore(kv, internal.SystemClock{}),
	}, nil
}

// keeper builds a Keeper for one-shot commands. They never start the timer,
// so scheduled callbacks can run inline.
func (e *environment) keeper() *internal.Keeper {
	return internal.NewKeeper(internal.KeeperOptions{
		Scheduler: internal.NewLoopScheduler(func(fn func()) { fn() }),
		Store:     e.store,
		OnEvent: func(ev internal.Event) {
			if n, ok := ev.(internal.NoticeEvent); ok {
				internal.PrintNotice(n)
			}
		},
	})
}

func (e *environment) Close() {
	if err := e.db.Close(); err != nil {
		internal.LogWarn("Failed to close database: %v", err)
	}
}
