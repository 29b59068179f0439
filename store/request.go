package store

import "github.com/zoobzio/flip"

// Request carries an action through the dispatch pipeline.
type Request[T any] struct {
	// Action is the action being dispatched. Middleware may replace it; the
	// reducer receives whatever reaches the end of the pipeline.
	Action flip.Action

	// Previous is the state before this dispatch.
	Previous T
}
