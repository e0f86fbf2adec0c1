package export

import (
	"io"

	"github.com/iksnae/timekeeper/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports records in YAML format
type YAMLExporter struct{}

// Export exports records to YAML format
func (e *YAMLExporter) Export(records []internal.HistoryRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(struct {
		Records []internal.HistoryRecord `yaml:"records"`
	}{Records: records})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
