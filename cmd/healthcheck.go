package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/timekeeper/internal"
	"github.com/spf13/cobra"
)

const healthcheckKey = "timekeeper.healthcheck"

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that timekeeper can read its config and use its database",
	Long: `Check the health of timekeeper by verifying:
  • Data directory detection
  • Config parsing and agenda validity
  • Database open, write, read and delete
  • Saved history readability

This command is useful for debugging storage issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Timekeeper Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Detect data paths
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Detecting data paths..."))
		paths, err := internal.ResolveDataPaths(storagePath)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to detect data paths:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Data paths detected"))
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   Data directory: %s\n", paths.BaseDir)
			_, _ = fmt.Fprintf(out, "   Database: %s\n", paths.Database)
			_, _ = fmt.Fprintf(out, "   Log file: %s\n", paths.LogFile)
		}
		if !paths.DatabaseExists() {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Database not created yet, it will be created now"))
		}
		_, _ = fmt.Fprintln(out)

		// Step 2..4 share the environment the other commands use
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Loading config..."))
		env, err := openEnvironment()
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open config or database"))
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, "Error details:")
			_, _ = fmt.Fprintln(out, err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer env.Close()

		if env.cfg.AgendaMode() {
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Config valid, agenda of %d speaker(s)", len(env.cfg.Speakers))))
			if healthcheckVerbose {
				for i, s := range env.cfg.Speakers {
					_, _ = fmt.Fprintf(out, "   [%d] %s (%s)\n", i+1, internal.SpeakerLabel(s.Name), internal.FormatClock(s.DurationSec()))
				}
			}
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Config valid, free-form timing (%s)", internal.FormatClock(env.cfg.Fields().DurationSec()))))
		}
		if env.cfg.QuotaBytes > 0 {
			_, _ = fmt.Fprintf(out, "   Storage quota: %d bytes\n", env.cfg.QuotaBytes)
		}
		_, _ = fmt.Fprintln(out)

		// Step 3: Round trip through the key-value table
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Testing database access..."))
		if err := checkRoundTrip(env.kv); err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Database round trip failed:"), err)
			if internal.IsQuotaExceeded(err) {
				_, _ = fmt.Fprintln(out, "   The storage quota is full. Clear some records with 'timekeeper history clear'.")
			}
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Database read/write OK"))
		if healthcheckVerbose {
			if used, err := env.kv.UsedBytes(); err == nil {
				_, _ = fmt.Fprintf(out, "   Stored: %d bytes\n", used)
			}
		}
		_, _ = fmt.Fprintln(out)

		// Step 4: Saved data
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Reading saved data..."))
		records := env.store.LoadHistory()
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d record(s)", len(records))))
		if _, ok := env.store.LoadSnapshot(); ok {
			_, _ = fmt.Fprintln(out, "   A saved session will be resumed by 'timekeeper run'")
		}
		_, _ = fmt.Fprintln(out)

		printHealthSummary(out, len(records))
		return nil
	},
}

// checkRoundTrip writes, reads back and deletes a probe value
func checkRoundTrip(kv internal.KVStore) error {
	probe := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := kv.Set(healthcheckKey, probe); err != nil {
		return err
	}
	got, ok, err := kv.Get(healthcheckKey)
	if err != nil {
		return err
	}
	if !ok || got != probe {
		return fmt.Errorf("read back %q, want %q", got, probe)
	}
	return kv.Delete(healthcheckKey)
}

func printHealthSummary(out io.Writer, records int) {
	_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	_, _ = fmt.Fprintln(out, successStyle.Render("   • Storage: Available"))
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Records: %d", records)))
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
