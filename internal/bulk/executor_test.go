package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("bm-%03d", i)
	}
	return ids
}

// countingOp records how many times each id was invoked.
type countingOp struct {
	mu     sync.Mutex
	counts map[string]int
	fail   func(id string) error
}

func newCountingOp(fail func(id string) error) *countingOp {
	return &countingOp{counts: make(map[string]int), fail: fail}
}

func (c *countingOp) op(_ context.Context, id string) error {
	c.mu.Lock()
	c.counts[id]++
	c.mu.Unlock()
	if c.fail != nil {
		return c.fail(id)
	}
	return nil
}

func TestExecute_AllSucceed(t *testing.T) {
	ids := makeIDs(20)
	op := newCountingOp(nil)

	res, err := Execute(context.Background(), ids, op.op, 3, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(res.Succeeded); got != len(ids) {
		t.Fatalf("Expected %d succeeded, got %d", len(ids), got)
	}
	if got := len(res.Failed); got != 0 {
		t.Fatalf("Expected no failures, got %d (%v)", got, res.Failed)
	}
	seen := make(map[string]int)
	for _, id := range res.Succeeded {
		seen[id]++
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("id %s appears %d times in succeeded, want 1", id, seen[id])
		}
		if op.counts[id] != 1 {
			t.Errorf("id %s was invoked %d times, want 1", id, op.counts[id])
		}
	}
}

func TestExecute_AllFail(t *testing.T) {
	ids := makeIDs(12)
	op := newCountingOp(func(id string) error {
		return fmt.Errorf("boom for %s", id)
	})

	res, err := Execute(context.Background(), ids, op.op, 4, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(res.Failed); got != len(ids) {
		t.Fatalf("Expected %d failures, got %d", len(ids), got)
	}
	if got := len(res.Succeeded); got != 0 {
		t.Fatalf("Expected no successes, got %d", got)
	}
	inputs := make(map[string]bool)
	for _, id := range ids {
		inputs[id] = true
	}
	seen := make(map[string]bool)
	for _, f := range res.Failed {
		if seen[f.ID] {
			t.Errorf("id %s appears twice in failed", f.ID)
		}
		seen[f.ID] = true
		if !inputs[f.ID] {
			t.Errorf("failed id %s is not from the input set", f.ID)
		}
		if f.Message == "" {
			t.Errorf("failed id %s has an empty message", f.ID)
		}
	}
}

func TestExecute_MixedPartitionAtVariousConcurrency(t *testing.T) {
	const n = 25
	ids := makeIDs(n)
	shouldFail := func(id string) bool {
		return strings.HasSuffix(id, "3") || strings.HasSuffix(id, "7")
	}

	for _, k := range []int{1, 3, n, n + 10} {
		t.Run(fmt.Sprintf("concurrency=%d", k), func(t *testing.T) {
			op := newCountingOp(func(id string) error {
				if shouldFail(id) {
					return errors.New("deterministic failure")
				}
				return nil
			})
			res, err := Execute(context.Background(), ids, op.op, k, nil)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}

			union := make(map[string]int)
			for _, id := range res.Succeeded {
				union[id]++
				if shouldFail(id) {
					t.Errorf("id %s should have failed but succeeded", id)
				}
			}
			for _, f := range res.Failed {
				union[f.ID]++
				if !shouldFail(f.ID) {
					t.Errorf("id %s should have succeeded but failed", f.ID)
				}
			}
			if len(union) != n {
				t.Fatalf("Partition covers %d ids, want %d", len(union), n)
			}
			for _, id := range ids {
				if union[id] != 1 {
					t.Errorf("id %s appears %d times across the partition, want 1", id, union[id])
				}
			}
		})
	}
}

func TestExecute_ConcurrencyCap(t *testing.T) {
	const n = 30
	const k = 4
	var inFlight, peak atomic.Int64

	op := func(_ context.Context, _ string) error {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	if _, err := Execute(context.Background(), makeIDs(n), op, k, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := peak.Load(); got > k {
		t.Fatalf("Observed %d concurrent operations, cap is %d", got, k)
	}
}

func TestExecute_SnapshotInvariants(t *testing.T) {
	const n = 15
	ids := makeIDs(n)
	var snapshots []Snapshot
	op := func(_ context.Context, id string) error {
		if strings.HasSuffix(id, "2") {
			return errors.New("nope")
		}
		return nil
	}

	// The aggregator serializes callbacks, so appending without a lock is safe.
	res, err := Execute(context.Background(), ids, op, 3, func(s Snapshot) {
		snapshots = append(snapshots, s)
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// One snapshot per transition: n claims + n terminal outcomes.
	if got := len(snapshots); got != 2*n {
		t.Fatalf("Expected %d snapshots, got %d", 2*n, got)
	}

	prev := Snapshot{}
	for i, s := range snapshots {
		if s.Total != n {
			t.Errorf("snapshot %d: total = %d, want %d", i, s.Total, n)
		}
		if s.Completed+s.Failed+s.InProgress > s.Total {
			t.Errorf("snapshot %d: completed+failed+inProgress = %d exceeds total %d",
				i, s.Completed+s.Failed+s.InProgress, s.Total)
		}
		if s.Completed < prev.Completed {
			t.Errorf("snapshot %d: completed went backward (%d -> %d)", i, prev.Completed, s.Completed)
		}
		if s.Failed < prev.Failed {
			t.Errorf("snapshot %d: failed went backward (%d -> %d)", i, prev.Failed, s.Failed)
		}
		if len(s.Errors) != s.Failed {
			t.Errorf("snapshot %d: %d error entries for failed=%d", i, len(s.Errors), s.Failed)
		}
		prev = s
	}

	last := snapshots[len(snapshots)-1]
	if last.Completed+last.Failed != n {
		t.Fatalf("final snapshot: completed+failed = %d, want %d", last.Completed+last.Failed, n)
	}
	if last.InProgress != 0 {
		t.Fatalf("final snapshot: inProgress = %d, want 0", last.InProgress)
	}
	if last.Completed != len(res.Succeeded) || last.Failed != len(res.Failed) {
		t.Fatalf("final snapshot (%d/%d) disagrees with result (%d/%d)",
			last.Completed, last.Failed, len(res.Succeeded), len(res.Failed))
	}
}

func TestExecute_EmptyIDs(t *testing.T) {
	called := false
	res, err := Execute(context.Background(), nil, func(_ context.Context, _ string) error {
		t.Error("operation must not be invoked for empty input")
		return nil
	}, 3, func(Snapshot) { called = true })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called {
		t.Error("onProgress must not be invoked for empty input")
	}
	if len(res.Succeeded) != 0 || len(res.Failed) != 0 {
		t.Fatalf("Expected empty result, got %+v", res)
	}
}

func TestExecute_SingleIDHighConcurrency(t *testing.T) {
	op := newCountingOp(nil)
	res, err := Execute(context.Background(), []string{"x"}, op.op, 5, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if op.counts["x"] != 1 {
		t.Fatalf("Operation invoked %d times, want 1", op.counts["x"])
	}
	if len(res.Succeeded) != 1 || res.Succeeded[0] != "x" {
		t.Fatalf("Unexpected result: %+v", res)
	}
}

func TestExecute_ConcurrencyBelowOne(t *testing.T) {
	for _, k := range []int{0, -1} {
		var inFlight, peak atomic.Int64
		op := func(_ context.Context, _ string) error {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return nil
		}
		res, err := Execute(context.Background(), makeIDs(5), op, k, nil)
		if err != nil {
			t.Fatalf("Execute with concurrency %d: %v", k, err)
		}
		if len(res.Succeeded) != 5 {
			t.Fatalf("concurrency %d: expected 5 successes, got %d", k, len(res.Succeeded))
		}
		if got := peak.Load(); got != 1 {
			t.Fatalf("concurrency %d: observed %d concurrent operations, want 1", k, got)
		}
	}
}

func TestExecute_NilOperation(t *testing.T) {
	_, err := Execute(context.Background(), []string{"a"}, nil, 3, nil)
	if err == nil {
		t.Fatal("Expected an error for a nil operation")
	}
}

func TestExecute_PanicBecomesFailure(t *testing.T) {
	op := func(_ context.Context, id string) error {
		if id == "b" {
			panic("unexpected state")
		}
		return nil
	}
	res, err := Execute(context.Background(), []string{"a", "b", "c"}, op, 2, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0].ID != "b" {
		t.Fatalf("Expected exactly one failure for b, got %+v", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Message, "operation panicked") {
		t.Fatalf("Unexpected panic message: %q", res.Failed[0].Message)
	}
	if len(res.Succeeded) != 2 {
		t.Fatalf("Expected a and c to succeed, got %v", res.Succeeded)
	}
}

func TestExecute_FailureScenario(t *testing.T) {
	// ids a..e at concurrency 2, only c fails.
	ids := []string{"a", "b", "c", "d", "e"}
	op := func(_ context.Context, id string) error {
		if id == "c" {
			return errors.New("404 not found")
		}
		return nil
	}
	res, err := Execute(context.Background(), ids, op, 2, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("Expected one failure, got %+v", res.Failed)
	}
	if res.Failed[0].ID != "c" || res.Failed[0].Message != "404 not found" {
		t.Fatalf("Unexpected failure: %+v", res.Failed[0])
	}
	want := map[string]bool{"a": true, "b": true, "d": true, "e": true}
	if len(res.Succeeded) != len(want) {
		t.Fatalf("Expected %d successes, got %v", len(want), res.Succeeded)
	}
	for _, id := range res.Succeeded {
		if !want[id] {
			t.Errorf("Unexpected succeeded id %s", id)
		}
	}
}

func TestExecute_DuplicateIDsProcessedIndependently(t *testing.T) {
	op := newCountingOp(nil)
	res, err := Execute(context.Background(), []string{"a", "a", "b"}, op.op, 2, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if op.counts["a"] != 2 {
		t.Fatalf("Duplicate id invoked %d times, want 2", op.counts["a"])
	}
	if len(res.Succeeded) != 3 {
		t.Fatalf("Expected 3 outcomes, got %v", res.Succeeded)
	}
}

func TestRenderError_NeverEmpty(t *testing.T) {
	if got := renderError(errors.New("")); got == "" {
		t.Fatal("renderError returned an empty message")
	}
	if got := renderError(errors.New("plain")); got != "plain" {
		t.Fatalf("renderError = %q, want %q", got, "plain")
	}
}
