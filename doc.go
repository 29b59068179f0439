// Package flip provides typed helpers for the unidirectional state-update
// pattern: declaring actions, composing them into a reducer, and binding
// store state and dispatch into component props.
//
// # Actions
//
// An action pairs a tag with a handler that turns the action payload into a
// Mutator, a pure State → State transform:
//
//	var AddTodo = flip.CreateAction("ADD_TODO", func(task Task) flip.Mutator[State] {
//	    return flip.ApplyMutations(insertTask(task), insertTaskID(task.ID))
//	})
//
// AddTodo.Create(task) produces the Action to dispatch. The creator keeps its
// tag and handler so an action map can be assembled from creators alone.
//
// # Reducers
//
// CreateActionMap gathers creators by tag and CreateReducer closes over an
// initial state and the map:
//
//	reducer := flip.CreateReducer(initial, flip.CreateActionMap[State](AddTodo, CompleteTodo))
//
//	state := reducer(nil, nil)                  // initial state
//	action := AddTodo.Create(Task{ID: "a"})
//	state = reducer(&state, &action)            // handled
//	state = reducer(&state, &flip.Action{Type: "UNKNOWN"}) // unchanged
//
// Unknown or malformed actions are ordinary traffic and leave the state
// unchanged. Panics from handlers or mutators propagate to the caller.
//
// Payloads decoded from JSON or YAML arrive as generic maps; handlers still
// receive their declared payload type, decoded with mapstructure using json
// tags. A payload that cannot be decoded leaves the state unchanged and emits
// ActionRejected.
//
// # Binding
//
// Connect adapts a StateMapper and DispatchMapper to a Binder, the
// view-binding runtime's connect operation. Package view provides a Binder
// over package store.
//
// # Observability
//
// flip emits capitan signals rather than logging. See signals.go.
package flip
