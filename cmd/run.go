package cmd

import (
	"fmt"

	"github.com/iksnae/timekeeper/internal"
	"github.com/iksnae/timekeeper/internal/tui"
	"github.com/spf13/cobra"
)

var (
	runName      string
	runMinutes   int
	runSeconds   int
	runNoAgenda  bool
	runExportDir string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive timer",
	Long: `Open the interactive timer screen.

With an agenda in the config the speakers are loaded one after another;
otherwise the timer starts from the configured default duration. A session
that was running when timekeeper last exited is resumed.

Keys: space start/stop, enter confirm, esc cancel or reset, n speaker name,
arrows adjust the duration, e export CSV, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		opts := tui.RunOptions{
			Store:     env.store,
			Fields:    env.cfg.Fields(),
			ExportDir: runExportDir,
			LogFile:   env.paths.LogFile,
		}
		if !runNoAgenda {
			opts.Agenda = env.cfg.Speakers
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			opts.Fields.Name = runName
		}
		if flags.Changed("minutes") {
			opts.Fields.Minutes = runMinutes
		}
		if flags.Changed("seconds") {
			opts.Fields.Seconds = runSeconds
		}
		opts.Fields = opts.Fields.Normalize()

		if len(opts.Agenda) > 0 {
			internal.LogInfo("Starting with an agenda of %d speaker(s)", len(opts.Agenda))
		}
		if err := env.paths.EnsureBaseDir(); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		return tui.Run(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "Speaker name for free-form timing")
	runCmd.Flags().IntVarP(&runMinutes, "minutes", "m", internal.DefaultMinutes, "Countdown minutes (0-999)")
	runCmd.Flags().IntVarP(&runSeconds, "seconds", "s", 0, "Countdown seconds (0-59)")
	runCmd.Flags().BoolVar(&runNoAgenda, "no-agenda", false, "Ignore the agenda in the config")
	runCmd.Flags().StringVarP(&runExportDir, "out", "o", ".", "Directory for CSV exports")
}
