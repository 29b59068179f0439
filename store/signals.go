package store

import "github.com/zoobzio/capitan"

// Store lifecycle signals.
var (
	// StoreInitialized is emitted when a Store has probed its reducer for
	// the initial state.
	StoreInitialized = capitan.NewSignal(
		"flip.store.initialized",
		"Store initial state computed",
	)

	// WatchStarted is emitted when a Store begins reading from a watcher.
	WatchStarted = capitan.NewSignal(
		"flip.store.watch.started",
		"Action source watching started",
	)

	// WatchStopped is emitted when a Store stops reading from a watcher.
	WatchStopped = capitan.NewSignal(
		"flip.store.watch.stopped",
		"Action source watching stopped",
	)
)

// Dispatch signals.
var (
	// ActionReceived is emitted when a raw document arrives from a watcher.
	ActionReceived = capitan.NewSignal(
		"flip.store.action.received",
		"Raw action document received from watcher",
	)

	// DecodeFailed is emitted when a raw document cannot be decoded.
	DecodeFailed = capitan.NewSignal(
		"flip.store.decode.failed",
		"Action document decode failed",
	)

	// ActionDispatched is emitted after an action has been reduced.
	ActionDispatched = capitan.NewSignal(
		"flip.store.action.dispatched",
		"Action reduced into state",
	)

	// DispatchFailed is emitted when middleware rejects an action.
	DispatchFailed = capitan.NewSignal(
		"flip.store.dispatch.failed",
		"Dispatch middleware failed",
	)
)
