package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/iksnae/timekeeper/testutil"
)

// execute runs the root command with args and returns everything written
// to stdout and stderr. Flag variables are reset first so tests don't leak
// state into each other.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TIMEKEEPER_STORAGE", "")
	t.Setenv("TIMEKEEPER_QUOTA_BYTES", "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	verbose = false
	storagePath = ""
	configPath = ""
	historyShowIDs = false
	historyYes = false
	deleteID = ""
	format = "csv"
	outputDir = "."
	healthcheckVerbose = false

	var reset func(*cobra.Command)
	reset = func(c *cobra.Command) {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
				f.Changed = false
			}
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(c)
}

// fixtureStorage creates a data directory holding the sample history
func fixtureStorage(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	testutil.CreateSQLiteFixture(t, filepath.Join(dir, "timekeeper.db"))
	return dir
}

func writeTestFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0644)
}
