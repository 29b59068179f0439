package flip

import "github.com/zoobzio/capitan"

// Reducer signals.
var (
	// ActionRejected is emitted when a registered action carries a payload
	// its handler cannot accept. The state is left unchanged.
	ActionRejected = capitan.NewSignal(
		"flip.action.rejected",
		"Action payload rejected by handler",
	)
)
