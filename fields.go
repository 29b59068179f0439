package flip

import "github.com/zoobzio/capitan"

// Field keys shared by flip signals.
var (
	// KeyActionType is the tag of the action involved.
	KeyActionType = capitan.NewStringKey("action_type")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")
)
