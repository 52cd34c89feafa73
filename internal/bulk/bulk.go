package bulk

import "context"

// Operation performs one backend mutation for a single entity ID.
// Expected business failures are returned as errors; the executor records
// them per item and never aborts the batch because of them.
type Operation func(ctx context.Context, id string) error

// Failure is the terminal failed outcome for one entity ID.
type Failure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Snapshot is a point-in-time view of a running batch. Counters satisfy
// Completed+Failed+InProgress <= Total while work is in flight and
// Completed+Failed == Total once the batch finishes. Errors lists failures
// in discovery order.
type Snapshot struct {
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Failed     int       `json:"failed"`
	InProgress int       `json:"in_progress"`
	Errors     []Failure `json:"errors,omitempty"`
}

// ProgressFunc receives a Snapshot after every state transition (item
// claimed, item succeeded, item failed). Callbacks are serialized; the
// callback must not block materially and must not panic.
type ProgressFunc func(Snapshot)

// Result is the final partition of a finished batch. Every input ID appears
// in exactly one of the two lists. Succeeded and Failed are in completion
// order, not input order.
type Result struct {
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}
