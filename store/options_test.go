package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/pipz"
)

var (
	testLogID       = pipz.NewIdentity("test:log", "Test log effect")
	testNegateID    = pipz.NewIdentity("test:negate", "Test negate processor")
	testOnlyLargeID = pipz.NewIdentity("test:only-large", "Test only large filter")
	testRejectID    = pipz.NewIdentity("test:reject", "Test reject processor")
	testSlowID      = pipz.NewIdentity("test:slow", "Test slow processor")
	testObserverID  = pipz.NewIdentity("test:error-observer", "Test error observer")
	testFlakyID     = pipz.NewIdentity("test:flaky", "Test flaky processor")
	testMarkID      = pipz.NewIdentity("test:mark", "Test mark processor")
)

func TestWithMiddleware_UseEffect_SeesEveryAction(t *testing.T) {
	ctx := context.Background()

	var seen []string
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testLogID, func(_ context.Context, req *Request[tally]) error {
				seen = append(seen, req.Action.Type)
				return nil
			}),
		),
	)

	_ = st.Dispatch(ctx, increment.Create(1))
	_ = st.Dispatch(ctx, note.Create(notePayload{Text: "x"}))

	if len(seen) != 2 || seen[0] != "INCREMENT" || seen[1] != "NOTE" {
		t.Errorf("expected [INCREMENT NOTE], got %v", seen)
	}
}

func TestWithMiddleware_UseApply_CanReject(t *testing.T) {
	ctx := context.Background()

	st := New(tallyReducer,
		WithMiddleware(
			UseApply[tally](testRejectID, func(_ context.Context, req *Request[tally]) (*Request[tally], error) {
				if req.Action.Type == "NOTE" {
					return req, errors.New("notes are read-only")
				}
				return req, nil
			}),
		),
	)

	if err := st.Dispatch(ctx, note.Create(notePayload{Text: "x"})); err == nil {
		t.Fatal("expected rejection")
	}
	if len(st.State().Notes) != 0 {
		t.Errorf("expected no notes, got %v", st.State().Notes)
	}
}

func TestWithMiddleware_UseFilter_Conditional(t *testing.T) {
	ctx := context.Background()

	negate := UseTransform[tally](testNegateID, func(_ context.Context, req *Request[tally]) *Request[tally] {
		req.Action = increment.Create(-req.Action.Payload.(int))
		return req
	})

	st := New(tallyReducer,
		WithMiddleware(
			UseFilter[tally](testOnlyLargeID, func(_ context.Context, req *Request[tally]) bool {
				by, ok := req.Action.Payload.(int)
				return ok && by >= 100
			}, negate),
		),
	)

	_ = st.Dispatch(ctx, increment.Create(5))
	_ = st.Dispatch(ctx, increment.Create(100))

	if st.State().Count != -95 {
		t.Errorf("expected count -95, got %d", st.State().Count)
	}
}

func TestWithMiddleware_PreviousStateVisible(t *testing.T) {
	ctx := context.Background()

	var previous []int
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testLogID, func(_ context.Context, req *Request[tally]) error {
				previous = append(previous, req.Previous.Count)
				return nil
			}),
		),
	)

	_ = st.Dispatch(ctx, increment.Create(2))
	_ = st.Dispatch(ctx, increment.Create(3))

	if len(previous) != 2 || previous[0] != 0 || previous[1] != 2 {
		t.Errorf("expected [0 2], got %v", previous)
	}
}

func TestWithTimeout_RejectsSlowMiddleware(t *testing.T) {
	ctx := context.Background()

	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testSlowID, func(ctx context.Context, _ *Request[tally]) error {
				select {
				case <-time.After(time.Second):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		),
		WithTimeout[tally](20*time.Millisecond),
	)

	if err := st.Dispatch(ctx, increment.Create(1)); err == nil {
		t.Fatal("expected timeout error")
	}
	if st.State().Count != 0 {
		t.Errorf("expected count 0, got %d", st.State().Count)
	}
}

func TestWithErrorHandler_ObservesErrors(t *testing.T) {
	ctx := context.Background()

	var observed atomic.Int32
	handler := pipz.Effect(testObserverID, func(_ context.Context, _ *pipz.Error[*Request[tally]]) error {
		observed.Add(1)
		return nil
	})

	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testRejectID, func(context.Context, *Request[tally]) error {
				return errors.New("always fails")
			}),
		),
		WithErrorHandler[tally](handler),
	)

	if err := st.Dispatch(ctx, increment.Create(1)); err == nil {
		t.Fatal("expected error to propagate")
	}
	if observed.Load() != 1 {
		t.Errorf("expected handler to observe 1 error, got %d", observed.Load())
	}
}

func TestWithRetry_RetriesOnFailure(t *testing.T) {
	ctx := context.Background()

	var attempts int
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testFlakyID, func(context.Context, *Request[tally]) error {
				attempts++
				if attempts < 3 {
					return errors.New("transient failure")
				}
				return nil
			}),
		),
		WithRetry[tally](3),
	)

	if err := st.Dispatch(ctx, increment.Create(1)); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if st.State().Count != 1 {
		t.Errorf("expected count 1, got %d", st.State().Count)
	}
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()

	var attempts int
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testFlakyID, func(context.Context, *Request[tally]) error {
				attempts++
				return errors.New("persistent failure")
			}),
		),
		WithRetry[tally](3),
	)

	if err := st.Dispatch(ctx, increment.Create(1)); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if st.State().Count != 0 {
		t.Errorf("expected count 0, got %d", st.State().Count)
	}
}

func TestWithBackoff_RetriesWithDelay(t *testing.T) {
	ctx := context.Background()

	var attempts atomic.Int32
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testFlakyID, func(context.Context, *Request[tally]) error {
				if attempts.Add(1) < 2 {
					return errors.New("transient failure")
				}
				return nil
			}),
		),
		WithBackoff[tally](3, time.Millisecond),
	)

	if err := st.Dispatch(ctx, increment.Create(1)); err != nil {
		t.Fatalf("expected success after backoff retries, got %v", err)
	}
	if attempts.Load() < 2 {
		t.Errorf("expected at least 2 attempts, got %d", attempts.Load())
	}
}

func TestWithCircuitBreaker_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()

	var calls int
	st := New(tallyReducer,
		WithMiddleware(
			UseEffect[tally](testFlakyID, func(context.Context, *Request[tally]) error {
				calls++
				return errors.New("always fail")
			}),
		),
		WithCircuitBreaker[tally](2, time.Hour),
	)

	_ = st.Dispatch(ctx, increment.Create(1))
	_ = st.Dispatch(ctx, increment.Create(1))
	calls = 0

	if err := st.Dispatch(ctx, increment.Create(1)); err == nil {
		t.Fatal("expected open circuit to reject")
	}
	if calls != 0 {
		t.Errorf("expected middleware to be skipped while open, got %d calls", calls)
	}
	if st.State().Count != 0 {
		t.Errorf("expected count 0, got %d", st.State().Count)
	}
}

func TestUseRateLimit_AllowsBurst(t *testing.T) {
	ctx := context.Background()

	var marked int
	st := New(tallyReducer,
		WithMiddleware(
			UseRateLimit[tally](100, 10,
				UseTransform[tally](testMarkID, func(_ context.Context, req *Request[tally]) *Request[tally] {
					marked++
					return req
				}),
			),
		),
	)

	for i := 0; i < 5; i++ {
		if err := st.Dispatch(ctx, increment.Create(1)); err != nil {
			t.Fatalf("dispatch %d failed: %v", i, err)
		}
	}
	if marked != 5 {
		t.Errorf("expected 5 marked, got %d", marked)
	}
	if st.State().Count != 5 {
		t.Errorf("expected count 5, got %d", st.State().Count)
	}
}
