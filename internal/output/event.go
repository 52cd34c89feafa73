package output

import "linkbatch/internal/bulk"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - item.failed
// - progress
// - run.finished
//
// JSON mode remains an aggregate: the final Summary only.
type Event struct {
	Type       string `json:"type"`
	Run        string `json:"run,omitempty"`
	Action     string `json:"action,omitempty"`
	ID         string `json:"id,omitempty"`
	Error      string `json:"error,omitempty"`
	Total      int    `json:"total,omitempty"`
	Completed  int    `json:"completed,omitempty"`
	Failed     int    `json:"failed,omitempty"`
	InProgress int    `json:"in_progress,omitempty"`
	Succeeded  int    `json:"succeeded,omitempty"`
	ExitCode   int    `json:"exit_code,omitempty"`
}

// Summary is the aggregate outcome of one batch run. JSON-mode sinks encode
// exactly one Summary; the report sink renders it as Markdown.
type Summary struct {
	Run       string         `json:"run"`
	Action    string         `json:"action"`
	Total     int            `json:"total"`
	Succeeded []string       `json:"succeeded"`
	Failed    []bulk.Failure `json:"failed"`
	ExitCode  int            `json:"exit_code"`
}

// ProgressEvent converts an executor snapshot into a lifecycle event.
func ProgressEvent(s bulk.Snapshot) Event {
	return Event{
		Type:       "progress",
		Total:      s.Total,
		Completed:  s.Completed,
		Failed:     s.Failed,
		InProgress: s.InProgress,
	}
}

// ItemFailedEvent records one terminal per-item failure.
func ItemFailedEvent(f bulk.Failure) Event {
	return Event{Type: "item.failed", ID: f.ID, Error: f.Message}
}
