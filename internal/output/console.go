package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	failLabel = color.New(color.FgRed, color.Bold).Sprint("FAIL")
	okColor   = color.New(color.FgGreen).SprintfFunc()
	badColor  = color.New(color.FgRed).SprintfFunc()
)

// ConsoleSink renders batch output for humans (text) or machines
// (json/ndjson) on stdout.
type ConsoleSink struct {
	writer  io.Writer
	format  string // "text", "json", "ndjson"
	mu      sync.Mutex
	summary *Summary // for JSON aggregate output
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{writer: w, format: format}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		if sum, ok := v.(Summary); ok {
			s.summary = &sum
		}
		// Lifecycle events are dropped in JSON aggregate mode.
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Summary:
			e := Event{
				Type:      "run.finished",
				Run:       t.Run,
				Action:    t.Action,
				Total:     t.Total,
				Succeeded: len(t.Succeeded),
				Failed:    len(t.Failed),
				ExitCode:  t.ExitCode,
			}
			if err := encoder.Encode(e); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		switch t := v.(type) {
		case Event:
			if t.Type != "item.failed" {
				// Progress and lifecycle events stay off stdout in text mode;
				// the engine narrates progress on stderr.
				return nil
			}
			if _, err := fmt.Fprintf(s.writer, "[%s] %s - %s\n", failLabel, t.ID, t.Error); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Summary:
			line := okColor("%d succeeded", len(t.Succeeded))
			if len(t.Failed) > 0 {
				line += ", " + badColor("%d failed", len(t.Failed))
			}
			if _, err := fmt.Fprintf(s.writer, "%s: %s of %d\n", t.Action, line, t.Total); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if s.summary == nil {
			return nil
		}
		if err := encoder.Encode(s.summary); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
