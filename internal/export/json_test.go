package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/timekeeper/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		records []internal.HistoryRecord
		want    int
	}{
		{name: "three records", records: internal.CreateTestRecords(3), want: 3},
		{name: "nil records", records: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONExporter{}).Export(tt.records, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var got []internal.HistoryRecord
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, buf.String())
			}
			if len(got) != tt.want {
				t.Errorf("decoded %d records, want %d", len(got), tt.want)
			}
			if tt.want == 0 && strings.TrimSpace(buf.String()) != "[]" {
				t.Errorf("empty export = %q, want []", buf.String())
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if ext := (&JSONExporter{}).Extension(); ext != "json" {
		t.Errorf("Extension() = %q, want json", ext)
	}
}
