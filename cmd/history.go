package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/timekeeper/internal"
	"github.com/spf13/cobra"
)

var (
	historyShowIDs bool
	historyYes     bool
	deleteID       string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	onTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	overtimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, delete or clear recorded speaking slots",
	Long:  `Show the recorded speaking slots, oldest first. Use the subcommands to delete one record or clear them all.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded speaking slots",
	RunE:  runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [number]",
	Short: "Delete one record by its list number or --id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		keeper := env.keeper()
		index, err := findRecord(keeper.Records(), args, deleteID)
		if err != nil {
			return err
		}

		if err := keeper.RequestDeleteRecord(index); err != nil {
			return err
		}
		record := keeper.Records()[index]
		prompt := fmt.Sprintf("%s (%d. %s, %s)", keeper.Pending().Prompt(), index+1, record.SpeakerName, record.Timestamp)
		if !confirm(cmd, prompt) {
			_ = keeper.Cancel()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err := keeper.Confirm(); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d (%s)\n", index+1, record.SpeakerName)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		keeper := env.keeper()
		count := len(keeper.Records())
		if count == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No records to clear")
			return nil
		}

		if err := keeper.RequestClearRecords(); err != nil {
			return err
		}
		if !confirm(cmd, keeper.Pending().Prompt()) {
			_ = keeper.Cancel()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err := keeper.Confirm(); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d record(s)\n", count)
		return nil
	},
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	displayRecords(cmd.OutOrStdout(), env.store.LoadHistory(), historyShowIDs)
	return nil
}

func displayRecords(out io.Writer, records []internal.HistoryRecord, showIDs bool) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No records yet"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d record(s)", len(records))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	header := []string{"#", "Speaker", "Total", "Overtime", "Recorded"}
	if showIDs {
		header = append(header, "ID")
	}
	for i := range header {
		header[i] = titleStyle.Render(header[i])
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	for i, r := range records {
		name := truncateName(r.SpeakerName, 40)

		over := onTimeStyle.Render(r.OvertimeLabel())
		if r.OvertimeSec > 0 {
			over = overtimeStyle.Render(r.OvertimeLabel())
		}

		row := []string{
			strconv.Itoa(i + 1),
			name,
			internal.FormatClock(r.TotalTimeSec),
			over,
			dateStyle.Render(r.Timestamp),
		}
		if showIDs {
			row = append(row, idStyle.Render(r.ID))
		}
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
	}

	_ = w.Flush()
}

// truncateName shortens name to max runes, ending in "..." when cut
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-3]) + "..."
}

// findRecord resolves a 1-based list number or a record ID to an index
func findRecord(records []internal.HistoryRecord, args []string, id string) (int, error) {
	switch {
	case id != "" && len(args) > 0:
		return 0, fmt.Errorf("give either a record number or --id, not both")
	case id != "":
		for i, r := range records {
			if r.ID == id {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: no record with id %s", internal.ErrRecordIndex, id)
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid record number %q", args[0])
		}
		if n < 1 || n > len(records) {
			return 0, fmt.Errorf("%w: %d (have %d record(s))", internal.ErrRecordIndex, n, len(records))
		}
		return n - 1, nil
	default:
		return 0, fmt.Errorf("a record number or --id is required (use 'timekeeper history' to list records)")
	}
}

// confirm asks a yes/no question on the command's input unless --yes was given
func confirm(cmd *cobra.Command, prompt string) bool {
	if historyYes {
		return true
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)

	historyCmd.PersistentFlags().BoolVar(&historyShowIDs, "ids", false, "Show record IDs")
	historyDeleteCmd.Flags().StringVar(&deleteID, "id", "", "Delete the record with this ID")
	historyDeleteCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
}
