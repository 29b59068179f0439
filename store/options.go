package store

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

var (
	timeoutID      = pipz.NewIdentity("flip:timeout", "Bounds dispatch middleware duration")
	errorHandlerID = pipz.NewIdentity("flip:error-handler", "Observes dispatch middleware errors")
	middlewareID   = pipz.NewIdentity("flip:middleware", "Dispatch middleware sequence")
	retryID        = pipz.NewIdentity("flip:retry", "Retries failed dispatch middleware")
	backoffID      = pipz.NewIdentity("flip:backoff", "Retries failed dispatch middleware with backoff")
	breakerID      = pipz.NewIdentity("flip:circuit-breaker", "Stops dispatching after repeated middleware failures")
	rateLimitID    = pipz.NewIdentity("flip:rate-limit", "Limits the dispatch rate")
)

// Option configures the dispatch pipeline of a Store. Options wrap the
// pipeline in the order given.
type Option[T any] func(pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T any](terminal pipz.Chainable[*Request[T]], opts []Option[T]) pipz.Chainable[*Request[T]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------

// WithTimeout fails a dispatch whose middleware takes longer than d.
// The reducer is not covered; it runs after the pipeline.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithRetry reruns the middleware up to maxAttempts times when it fails.
// Middleware that rewrites the request sees its own earlier rewrite on retry.
func WithRetry[T any](maxAttempts int) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff is WithRetry with delays of baseDelay, 2*baseDelay, 4*baseDelay
// and so on between attempts. The dispatch lock is held while waiting.
func WithBackoff[T any](maxAttempts int, baseDelay time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithCircuitBreaker rejects every dispatch without running middleware once
// failures consecutive dispatches have failed, until recovery has passed.
func WithCircuitBreaker[T any](failures int, recovery time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewCircuitBreaker(breakerID, p, failures, recovery)
	}
}

// WithErrorHandler adds error observation to the pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates and the dispatch is rejected.
func WithErrorHandler[T any](handler pipz.Chainable[*pipz.Error[*Request[T]]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}

// WithMiddleware runs processors in order before the reducer.
//
//	store.New(reducer,
//	    store.WithMiddleware(
//	        store.UseEffect[State](logID, logAction),
//	        store.UseFilter[State](knownID, isKnown, passthrough),
//	    ),
//	)
func WithMiddleware[T any](processors ...pipz.Chainable[*Request[T]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := make([]pipz.Chainable[*Request[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors (Use*)
// -----------------------------------------------------------------------------

// UseTransform creates a processor that rewrites the request. Cannot fail.
func UseTransform[T any](id pipz.Identity, fn func(context.Context, *Request[T]) *Request[T]) pipz.Chainable[*Request[T]] {
	return pipz.Transform(id, fn)
}

// UseApply creates a processor that can rewrite the request or reject it
// with an error.
func UseApply[T any](id pipz.Identity, fn func(context.Context, *Request[T]) (*Request[T], error)) pipz.Chainable[*Request[T]] {
	return pipz.Apply(id, fn)
}

// UseEffect creates a processor that performs a side effect. Returning an
// error rejects the dispatch.
func UseEffect[T any](id pipz.Identity, fn func(context.Context, *Request[T]) error) pipz.Chainable[*Request[T]] {
	return pipz.Effect(id, fn)
}

// UseRateLimit runs processor at most rate times per second with the given
// burst; callers wait for capacity.
func UseRateLimit[T any](rate float64, burst int, processor pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
	return pipz.NewRateLimiter(rateLimitID, rate, burst, processor)
}

// UseFilter runs processor only when condition holds; otherwise the request
// passes through unchanged.
func UseFilter[T any](id pipz.Identity, condition func(context.Context, *Request[T]) bool, processor pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
	return pipz.NewFilter(id, condition, processor)
}
