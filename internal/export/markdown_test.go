package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/timekeeper/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		records []internal.HistoryRecord
		want    []string
	}{
		{
			name:    "on time and overtime",
			records: []internal.HistoryRecord{internal.CreateTestRecord(1, "Alice", 598, 0), internal.CreateTestRecord(2, "Bob", 650, 50)},
			want: []string{
				"# Speaker Records",
				"**Speakers:** 2",
				"**Overtime:** 1",
				"| 1 | Alice | 9:58 | on time | 2026-10-19 09:01:00 |",
				"| 2 | Bob | 10:50 | +0:50 | 2026-10-19 09:02:00 |",
			},
		},
		{
			name:    "escaped name",
			records: []internal.HistoryRecord{internal.CreateTestRecord(1, "A|B **C**", 60, 0)},
			want:    []string{`| 1 | A\|B \*\*C\*\* | 1:00 |`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.records, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q\nOutput: %s", want, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if ext := (&MarkdownExporter{}).Extension(); ext != "md" {
		t.Errorf("Extension() = %q, want md", ext)
	}
}
