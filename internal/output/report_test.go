package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReportSink_RendersMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.started = base
	s.now = func() time.Time { return base.Add(2 * time.Second) }

	sum := sampleSummary()
	sum.Failed[0].Message = "pipe | in message"
	if err := s.Write(sum); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	report := string(raw)

	for _, want := range []string{
		"# linkbatch run report",
		"- Run: `run-1`",
		"- Action: `archive`",
		"- Duration: 2s",
		"| 3 | 2 | 1 |",
		"## Failures",
		"| 3 | pipe \\| in message |",
		"Exit code: 1",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}

func TestReportSink_NoRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "No batch was executed.") {
		t.Errorf("Unexpected empty report:\n%s", raw)
	}
}

func TestEscapeMarkdownCell(t *testing.T) {
	got := escapeMarkdownCell("line1\nline2 | cell")
	if got != "line1 line2 \\| cell" {
		t.Errorf("escapeMarkdownCell = %q", got)
	}
}
