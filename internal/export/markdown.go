package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/timekeeper/internal"
)

// MarkdownExporter exports records as a Markdown table
type MarkdownExporter struct{}

// Export exports records to Markdown format
func (e *MarkdownExporter) Export(records []internal.HistoryRecord, w io.Writer) error {
	overtime := 0
	for _, r := range records {
		if r.OvertimeSec > 0 {
			overtime++
		}
	}

	_, _ = fmt.Fprintf(w, "# Speaker Records\n\n")
	_, _ = fmt.Fprintf(w, "**Speakers:** %d  \n", len(records))
	_, _ = fmt.Fprintf(w, "**Overtime:** %d\n\n", overtime)

	_, _ = fmt.Fprintf(w, "| # | Speaker | Total | Overtime | Recorded At |\n")
	_, _ = fmt.Fprintf(w, "|---|---------|-------|----------|-------------|\n")

	for i, r := range records {
		_, err := fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
			i+1, escapeMarkdown(r.SpeakerName), internal.FormatClock(r.TotalTimeSec), r.OvertimeLabel(), r.Timestamp)
		if err != nil {
			return err
		}
	}

	return nil
}

// escapeMarkdown escapes characters that would break a table cell or
// turn a name into emphasis
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
