package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/timekeeper/internal"
)

// FilePrefix starts every export file name
const FilePrefix = "speaker-records"

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(records []internal.HistoryRecord, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format. An empty format means CSV.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "csv":
		return &CSVExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, jsonl, md, yaml, json)", format)
	}
}

// FileName returns the export file name for the given day
func FileName(e Exporter, day time.Time) string {
	return fmt.Sprintf("%s_%s.%s", FilePrefix, day.Format("2006-01-02"), e.Extension())
}

// WriteFile exports records into dir and returns the path written. An empty
// history fails with internal.ErrNoRecords before any file is created.
func WriteFile(e Exporter, records []internal.HistoryRecord, dir string, day time.Time) (string, error) {
	path := filepath.Join(dir, FileName(e, day))
	if len(records) == 0 {
		return "", &internal.ExportError{Format: e.Extension(), Path: path, Err: internal.ErrNoRecords}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &internal.ExportError{Format: e.Extension(), Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: e.Extension(), Path: path, Err: err}
	}

	if err := e.Export(records, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &internal.ExportError{Format: e.Extension(), Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &internal.ExportError{Format: e.Extension(), Path: path, Err: err}
	}

	internal.LogInfo("Exported %d records to %s", len(records), path)
	return path, nil
}
