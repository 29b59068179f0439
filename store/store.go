// Package store hosts a flip.Reducer: it holds the current state, serializes
// dispatch, notifies subscribers, and feeds actions from external sources.
//
// # Dispatch
//
// Every dispatch flows through a pipeline before the reducer runs:
//
//	Action → Middleware (pipz) → Reducer → Store → Subscribers
//
// Middleware can observe, rewrite, filter or reject actions. A rejected
// action leaves the state unchanged and Dispatch returns the error. The
// reducer itself runs outside the pipeline so panics from handlers reach the
// caller of Dispatch unmodified.
//
// # Sources
//
// Watch reads raw action documents from a Watcher, decodes them with the
// configured Codec and dispatches each action in order:
//
//	st := store.New(todo.Reducer)
//	go st.Watch(ctx, store.NewFileWatcher("actions.jsonl"))
//
// Decode and dispatch failures are recorded (LastError, ErrorHistory) and
// signalled; watching continues.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/flip"
	"github.com/zoobzio/pipz"
)

var passthroughID = pipz.NewIdentity("flip:passthrough", "Hands the request to the reducer")

// Store holds the state produced by a reducer.
type Store[T any] struct {
	reducer  flip.Reducer[T]
	pipeline pipz.Chainable[*Request[T]]
	clock    clockz.Clock
	codec    Codec
	metrics  MetricsProvider
	onStop   func()

	current      atomic.Pointer[T]
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	// mu serializes dispatch.
	mu sync.Mutex

	subMu       sync.RWMutex
	subscribers map[uint64]func(prev, curr T)
	nextSub     uint64
}

// New creates a Store around reducer. The initial state is obtained by
// calling the reducer with no state and no action.
//
// Pipeline options (With*) configure dispatch middleware. Instance
// configuration uses chainable methods.
//
//	st := store.New(reducer,
//	    store.WithTimeout[State](time.Second),
//	).Codec(store.YAMLCodec{})
func New[T any](reducer flip.Reducer[T], opts ...Option[T]) *Store[T] {
	terminal := pipz.Transform(passthroughID, func(_ context.Context, req *Request[T]) *Request[T] {
		return req
	})

	s := &Store[T]{
		reducer:     reducer,
		pipeline:    buildPipeline(terminal, opts),
		clock:       clockz.RealClock,
		codec:       JSONCodec{},
		metrics:     NoOpMetricsProvider{},
		subscribers: make(map[uint64]func(prev, curr T)),
	}

	initial := reducer(nil, nil)
	s.current.Store(&initial)
	capitan.Emit(context.Background(), StoreInitialized)

	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets the clock used to time dispatches.
// Use this with clockz.FakeClock for deterministic tests.
func (s *Store[T]) Clock(clock clockz.Clock) *Store[T] {
	s.clock = clock
	return s
}

// Codec sets the codec used by Watch to decode action documents.
// Default: JSONCodec.
func (s *Store[T]) Codec(codec Codec) *Store[T] {
	s.codec = codec
	return s
}

// Metrics sets a metrics provider for observability integration.
func (s *Store[T]) Metrics(provider MetricsProvider) *Store[T] {
	if provider == nil {
		provider = NoOpMetricsProvider{}
	}
	s.metrics = provider
	return s
}

// OnStop sets a callback invoked whenever a Watch call returns.
func (s *Store[T]) OnStop(fn func()) *Store[T] {
	s.onStop = fn
	return s
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
func (s *Store[T]) ErrorHistorySize(n int) *Store[T] {
	s.errorHistory = newErrorRing(n)
	return s
}

// State returns the current state.
func (s *Store[T]) State() T {
	return *s.current.Load()
}

// LastError returns the last error recorded while watching, or nil.
func (s *Store[T]) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (s *Store[T]) ErrorHistory() []error {
	return s.errorHistory.all()
}

// Subscribe registers fn to be called after every dispatch with the state
// before and after it. The returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func(prev, curr T)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	count := len(s.subscribers)
	s.subMu.Unlock()
	s.metrics.OnSubscribersChanged(count)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			count := len(s.subscribers)
			s.subMu.Unlock()
			s.metrics.OnSubscribersChanged(count)
		})
	}
}

// Dispatch runs action through the middleware pipeline and the reducer, then
// notifies subscribers. Dispatches are serialized. If middleware fails, the
// state is unchanged and the error is returned.
//
// Dispatch has the shape of flip.Dispatch.
func (s *Store[T]) Dispatch(ctx context.Context, action flip.Action) error {
	s.mu.Lock()
	start := s.clock.Now()
	prev := s.State()

	processed, err := s.pipeline.Process(ctx, &Request[T]{Action: action, Previous: prev})
	if err != nil {
		s.mu.Unlock()
		capitan.Emit(ctx, DispatchFailed,
			flip.KeyActionType.Field(action.Type),
			flip.KeyError.Field(err.Error()),
		)
		s.metrics.OnDispatchFailure(action.Type, "pipeline", s.clock.Since(start))
		return fmt.Errorf("dispatch %s failed: %w", action.Type, err)
	}

	next := s.reduce(prev, processed.Action)
	s.current.Store(&next)
	s.mu.Unlock()

	duration := s.clock.Since(start)
	capitan.Emit(ctx, ActionDispatched,
		flip.KeyActionType.Field(processed.Action.Type),
		KeyDuration.Field(duration),
	)
	s.metrics.OnDispatchSuccess(processed.Action.Type, duration)

	s.notify(prev, next)
	return nil
}

// reduce applies the reducer. If the reducer panics the dispatch lock is
// released before the panic continues.
func (s *Store[T]) reduce(prev T, action flip.Action) T {
	returned := false
	defer func() {
		if !returned {
			s.mu.Unlock()
		}
	}()
	next := s.reducer(&prev, &action)
	returned = true
	return next
}

// notify calls every subscriber with the transition.
func (s *Store[T]) notify(prev, curr T) {
	s.subMu.RLock()
	subs := make([]func(prev, curr T), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(prev, curr)
	}
}

// Watch reads action documents from watcher and dispatches them until the
// watcher's channel closes or ctx is canceled. Failures on individual
// documents are recorded and do not stop the watch.
//
// Watch returns nil when the source closes and ctx.Err() when canceled.
func (s *Store[T]) Watch(ctx context.Context, watcher Watcher) error {
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	capitan.Emit(ctx, WatchStarted,
		KeyWatcherType.Field(fmt.Sprintf("%T", watcher)),
		KeyContentType.Field(s.codec.ContentType()),
	)
	defer func() {
		capitan.Emit(ctx, WatchStopped)
		if s.onStop != nil {
			s.onStop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-changes:
			if !ok {
				return nil
			}
			s.process(ctx, raw)
		}
	}
}

// process decodes one raw document and dispatches its actions in order.
func (s *Store[T]) process(ctx context.Context, raw []byte) {
	start := s.clock.Now()
	capitan.Emit(ctx, ActionReceived)
	s.metrics.OnActionReceived()

	actions, err := DecodeActions(s.codec, raw)
	if err != nil {
		s.setError(err)
		capitan.Emit(ctx, DecodeFailed,
			flip.KeyError.Field(err.Error()),
		)
		s.metrics.OnDispatchFailure("", "decode", s.clock.Since(start))
		return
	}

	for _, action := range actions {
		if err := s.Dispatch(ctx, action); err != nil {
			s.setError(err)
		}
	}
}

// setError stores an error atomically and adds it to the error history.
func (s *Store[T]) setError(err error) {
	e := err
	s.lastError.Store(&e)
	s.errorHistory.push(err)
}
