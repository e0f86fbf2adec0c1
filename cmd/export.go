package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/iksnae/timekeeper/internal"
	"github.com/iksnae/timekeeper/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to file",
	Long: `Export the recorded speaking slots to a file named
speaker-records_<YYYY-MM-DD>.<ext> in the output directory.

CSV (the default) starts with a UTF-8 BOM so spreadsheet tools detect the
encoding. Other formats: jsonl, md, yaml, json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		// Create exporter
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		records := env.store.LoadHistory()
		if len(records) == 0 {
			return internal.ErrNoRecords
		}

		var path string
		ctx := context.Background()
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d record(s) to %s", len(records), outputDir), func() error {
			var writeErr error
			path, writeErr = export.WriteFile(exporter, records, outputDir, time.Now())
			return writeErr
		})
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Export complete: %d record(s) written to %s\n", len(records), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format (csv, jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
}
