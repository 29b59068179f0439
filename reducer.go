package flip

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Reducer is the state transition function handed to a store.
//
// A nil state selects the reducer's initial state. A nil action, an action
// without a type, or an action whose type is not registered leaves the state
// unchanged; stores rely on this for their initialization probe.
type Reducer[S any] func(state *S, action *Action) S

// CreateReducer builds a Reducer over an initial state and an action map.
//
// Handlers and mutators run synchronously on the caller's goroutine. A panic
// raised by either is not recovered.
func CreateReducer[S any](initial S, actions *ActionMap[S]) Reducer[S] {
	return func(state *S, action *Action) S {
		current := initial
		if state != nil {
			current = *state
		}

		if action == nil || action.Type == "" {
			return current
		}

		handle, ok := actions.Lookup(action.Type)
		if !ok {
			return current
		}

		mutate, err := handle(*action)
		if err != nil {
			capitan.Emit(context.Background(), ActionRejected,
				KeyActionType.Field(action.Type),
				KeyError.Field(err.Error()),
			)
			return current
		}
		return mutate(current)
	}
}
