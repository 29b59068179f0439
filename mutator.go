package flip

// Mutator is a pure state transform. Implementations must return a new value
// rather than modify the state they receive.
type Mutator[S any] func(S) S

// ApplyMutations composes effects into a single Mutator that applies each one
// in order, feeding the result of one into the next.
//
// With no effects the returned Mutator is the identity.
//
//	addTask := flip.ApplyMutations(
//	    insertTask(task),
//	    insertTaskID(task.ID),
//	)
func ApplyMutations[S any](effects ...Mutator[S]) Mutator[S] {
	return func(state S) S {
		for _, effect := range effects {
			state = effect(state)
		}
		return state
	}
}
