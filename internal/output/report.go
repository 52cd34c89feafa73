package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ReportSink writes a Markdown batch report when the run finishes.
type ReportSink struct {
	path    string
	file    *os.File
	mu      sync.Mutex
	summary *Summary
	started time.Time
	now     func() time.Time
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:    path,
		file:    f,
		started: time.Now(),
		now:     time.Now,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sum, ok := v.(Summary); ok {
		s.summary = &sum
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("# linkbatch run report\n\n")
	if s.summary == nil {
		b.WriteString("No batch was executed.\n")
	} else {
		sum := s.summary
		fmt.Fprintf(&b, "- Run: `%s`\n", sum.Run)
		fmt.Fprintf(&b, "- Action: `%s`\n", sum.Action)
		fmt.Fprintf(&b, "- Finished: %s\n", s.now().UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "- Duration: %s\n", s.now().Sub(s.started).Truncate(time.Millisecond))
		b.WriteString("\n## Totals\n\n")
		fmt.Fprintf(&b, "| Total | Succeeded | Failed |\n|---|---|---|\n| %d | %d | %d |\n",
			sum.Total, len(sum.Succeeded), len(sum.Failed))
		if len(sum.Failed) > 0 {
			b.WriteString("\n## Failures\n\n")
			b.WriteString("| Bookmark | Error |\n|---|---|\n")
			for _, f := range sum.Failed {
				fmt.Fprintf(&b, "| %s | %s |\n", f.ID, escapeMarkdownCell(f.Message))
			}
		}
		fmt.Fprintf(&b, "\nExit code: %d\n", sum.ExitCode)
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

func escapeMarkdownCell(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.ReplaceAll(v, "|", "\\|")
}
