package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/timekeeper/internal"
	"github.com/spf13/cobra"
)

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	statusClockStyles = map[internal.VisualState]lipgloss.Style{
		internal.VisualNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		internal.VisualWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		internal.VisualOvertime: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session without resuming it",
	Long: `Show what 'timekeeper run' would restore: a running timer with its
remaining or overtime, a timer waiting on a stop confirmation, or nothing.

Sessions older than 12 hours are discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		snap, ok := env.store.LoadSnapshot()
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No saved session")
			return nil
		}
		displaySnapshot(cmd.OutOrStdout(), snap, len(env.cfg.Speakers), time.Now())
		return nil
	},
}

func displaySnapshot(out io.Writer, snap *internal.Snapshot, agendaLen int, now time.Time) {
	state := snap.TimerState.AsOf(now)
	d := state.DisplayAt(now)

	label := func(s string) string { return statusLabelStyle.Render(fmt.Sprintf("%-10s", s)) }

	_, _ = fmt.Fprintf(out, "%s%s\n", label("Speaker:"), internal.SpeakerLabel(snap.SpeakerName))
	if snap.IsAgendaMode {
		_, _ = fmt.Fprintf(out, "%s%d of %d\n", label("Agenda:"), snap.CurrentSpeakerIndex+1, agendaLen)
	}
	_, _ = fmt.Fprintf(out, "%s%s\n", label("Duration:"), internal.FormatClock(snap.Fields().DurationSec()))

	var status string
	switch {
	case state.IsPaused():
		status = "paused, awaiting stop confirmation"
	case state.IsRunning && d.State == internal.VisualOvertime:
		status = "running, overtime"
	case state.IsRunning:
		status = "running"
	default:
		status = "idle"
	}
	_, _ = fmt.Fprintf(out, "%s%s\n", label("State:"), status)

	if !state.IsIdle() {
		clock := fmt.Sprintf("%d:%02d", d.Minutes, d.Seconds)
		if d.State == internal.VisualOvertime {
			clock = "+" + clock
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", label("Clock:"), statusClockStyles[d.State].Render(clock))
	}
	_, _ = fmt.Fprintf(out, "%s%s\n", label("Saved:"), time.UnixMilli(snap.SavedAtMs).Format("2006-01-02 15:04:05"))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
