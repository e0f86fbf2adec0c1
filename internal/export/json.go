package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/timekeeper/internal"
)

// JSONExporter exports records in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports records to JSON format
func (e *JSONExporter) Export(records []internal.HistoryRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if records == nil {
		records = []internal.HistoryRecord{}
	}
	return enc.Encode(records)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
