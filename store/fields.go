package store

import "github.com/zoobzio/capitan"

// Field keys for Store events. Action type and error fields use the keys
// from package flip.
var (
	// KeyDuration is the time taken by a dispatch.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyWatcherType is the type name of the watcher implementation.
	KeyWatcherType = capitan.NewStringKey("watcher_type")

	// KeyContentType is the MIME type of the codec decoding action documents.
	KeyContentType = capitan.NewStringKey("content_type")
)
