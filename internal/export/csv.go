package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/iksnae/timekeeper/internal"
)

const utf8BOM = "\ufeff"

var csvHeader = []string{"Speaker", "Total (m:ss)", "Overtime (m:ss)", "Recorded At"}

// CSVExporter writes a spreadsheet-friendly table, one row per record. The
// output starts with a UTF-8 BOM and speaker names are always quoted.
type CSVExporter struct{}

// Export exports records to CSV
func (e *CSVExporter) Export(records []internal.HistoryRecord, w io.Writer) error {
	bw := bufio.NewWriter(w)

	_, _ = bw.WriteString(utf8BOM)
	_, _ = bw.WriteString(strings.Join(csvHeader, ","))

	for _, r := range records {
		_, _ = bw.WriteString("\n")
		_, _ = bw.WriteString(strings.Join([]string{
			quoteField(r.SpeakerName),
			internal.FormatClock(r.TotalTimeSec),
			internal.FormatClock(max(0, r.OvertimeSec)),
			r.Timestamp,
		}, ","))
	}

	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
