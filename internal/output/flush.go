package output

import "io"

type flusher interface {
	Flush() error
}

// flushIfPossible flushes writers that buffer (e.g. bufio) so streamed
// events appear promptly; other writers are left alone.
func flushIfPossible(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
