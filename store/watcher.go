package store

import "context"

// Watcher is a source of raw action documents.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits one
	// document per change. The channel is closed when the context is canceled
	// or the source is exhausted.
	Watch(ctx context.Context) (<-chan []byte, error)
}
