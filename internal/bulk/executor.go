package bulk

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the worker count used when the caller does not
// specify one.
const DefaultConcurrency = 3

type transitionKind int

const (
	transitionClaimed transitionKind = iota
	transitionSucceeded
	transitionFailed
)

type transition struct {
	kind    transitionKind
	id      string
	message string
}

// Execute applies op to every id with at most min(concurrency, len(ids))
// operations in flight at once.
//
// Semantics:
//   - Every id is processed exactly once and reaches exactly one terminal
//     outcome; duplicates in ids are processed independently.
//   - The queue hand-off is a channel receive, so no two workers ever claim
//     the same id.
//   - onProgress (optional) is invoked after every transition with a
//     snapshot of the aggregate counters. Snapshots never go backward.
//   - Execute returns only after all ids have a terminal outcome. There is
//     no cancellation of claimed work; ctx is passed through to op, which
//     may honor it on its own.
//
// concurrency values below 1 are treated as 1. A nil op is a configuration
// error and fails fast before any worker starts.
func Execute(ctx context.Context, ids []string, op Operation, concurrency int, onProgress ProgressFunc) (Result, error) {
	if op == nil {
		return Result{}, errors.New("bulk: operation must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(ids) == 0 {
		return Result{}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	workers := min(concurrency, len(ids))

	queue := make(chan string, len(ids))
	for _, id := range ids {
		queue <- id
	}
	close(queue)

	// The aggregator goroutine owns the counters and the failure list;
	// workers only send transitions. Serializing transitions here is what
	// keeps snapshots consistent and monotone.
	events := make(chan transition)
	final := make(chan Result, 1)
	go func() {
		var res Result
		var completed, failed, inProgress int
		for ev := range events {
			switch ev.kind {
			case transitionClaimed:
				inProgress++
			case transitionSucceeded:
				inProgress--
				completed++
				res.Succeeded = append(res.Succeeded, ev.id)
			case transitionFailed:
				inProgress--
				failed++
				res.Failed = append(res.Failed, Failure{ID: ev.id, Message: ev.message})
			}
			if onProgress != nil {
				onProgress(Snapshot{
					Total:      len(ids),
					Completed:  completed,
					Failed:     failed,
					InProgress: inProgress,
					Errors:     slices.Clone(res.Failed),
				})
			}
		}
		final <- res
	}()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for id := range queue {
				events <- transition{kind: transitionClaimed, id: id}
				if err := invoke(ctx, op, id); err != nil {
					events <- transition{kind: transitionFailed, id: id, message: renderError(err)}
				} else {
					events <- transition{kind: transitionSucceeded, id: id}
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	close(events)
	return <-final, nil
}

// invoke runs op for one id, converting a panic into an ordinary error so a
// misbehaving operation is recorded as a per-item failure instead of taking
// down the batch.
func invoke(ctx context.Context, op Operation, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return op(ctx, id)
}

// renderError guarantees a non-empty failure message.
func renderError(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%T", err)
}
