package flip

import "context"

// Dispatch is the capability to send an action to a store.
type Dispatch func(ctx context.Context, action Action) error

// StateMapper derives state props for a component from its own props and the
// store state.
type StateMapper[S, Own, SP any] func(own Own, state S) SP

// DispatchMapper derives dispatch props for a component from its own props
// and the store's dispatch capability.
type DispatchMapper[Own, DP any] func(own Own, dispatch Dispatch) DP

// MapStateToProps is the state mapper shape a Binder consumes.
type MapStateToProps[S, Own, SP any] func(state S, own Own) SP

// MapDispatchToProps is the dispatch mapper shape a Binder consumes.
type MapDispatchToProps[Own, DP any] func(dispatch Dispatch, own Own) DP

// MergeProps combines state props, dispatch props and own props into the
// props a wrapped component receives.
type MergeProps[SP, DP, Own, P any] func(stateProps SP, dispatchProps DP, own Own) P

// Props is the default merge of a connected component's inputs. Dispatch is
// only set when the component was connected without a dispatch mapper.
type Props[Own, SP, DP any] struct {
	Own      Own
	State    SP
	Actions  DP
	Dispatch Dispatch
}

// Component renders props.
type Component[P any] func(props P) string

// Enhancer wraps a component that takes P into one that takes only its own
// props, supplying the rest from the store.
type Enhancer[Own, P any] func(Component[P]) Component[Own]

// Binder is a view-binding runtime's connect operation in its positional
// forms. ConnectBoth accepts a nil mapState.
type Binder[S, Own, SP, DP any] interface {
	Connect() Enhancer[Own, Props[Own, SP, DP]]
	ConnectState(mapState MapStateToProps[S, Own, SP]) Enhancer[Own, Props[Own, SP, DP]]
	ConnectBoth(mapState MapStateToProps[S, Own, SP], mapDispatch MapDispatchToProps[Own, DP]) Enhancer[Own, Props[Own, SP, DP]]
}

// MergeBinder is the three-argument connect form with explicit merging.
// Either mapper may be nil.
type MergeBinder[S, Own, SP, DP, P any] interface {
	ConnectMerge(mapState MapStateToProps[S, Own, SP], mapDispatch MapDispatchToProps[Own, DP], merge MergeProps[SP, DP, Own, P]) Enhancer[Own, P]
}

// CreateMapStateToProps adapts a StateMapper to the binding shape.
// A nil mapper yields nil.
func CreateMapStateToProps[S, Own, SP any](mapper StateMapper[S, Own, SP]) MapStateToProps[S, Own, SP] {
	if mapper == nil {
		return nil
	}
	return func(state S, own Own) SP {
		return mapper(own, state)
	}
}

// CreateMapDispatchToProps adapts a DispatchMapper to the binding shape.
// A nil mapper yields nil.
func CreateMapDispatchToProps[Own, DP any](mapper DispatchMapper[Own, DP]) MapDispatchToProps[Own, DP] {
	if mapper == nil {
		return nil
	}
	return func(dispatch Dispatch, own Own) DP {
		return mapper(own, dispatch)
	}
}

// Connect binds mappers through binder, choosing the form by which mappers
// are present:
//
//   - mapDispatch set: ConnectBoth, with mapState possibly nil
//   - only mapState set: ConnectState
//   - neither: Connect
func Connect[S, Own, SP, DP any](
	binder Binder[S, Own, SP, DP],
	mapState StateMapper[S, Own, SP],
	mapDispatch DispatchMapper[Own, DP],
) Enhancer[Own, Props[Own, SP, DP]] {
	stateMapper := CreateMapStateToProps(mapState)
	dispatchMapper := CreateMapDispatchToProps(mapDispatch)

	if dispatchMapper != nil {
		return binder.ConnectBoth(stateMapper, dispatchMapper)
	}
	if stateMapper != nil {
		return binder.ConnectState(stateMapper)
	}
	return binder.Connect()
}

// ConnectMerge binds mappers and an explicit merge function through binder's
// three-argument form. All three are forwarded as given.
func ConnectMerge[S, Own, SP, DP, P any](
	binder MergeBinder[S, Own, SP, DP, P],
	mapState StateMapper[S, Own, SP],
	mapDispatch DispatchMapper[Own, DP],
	merge MergeProps[SP, DP, Own, P],
) Enhancer[Own, P] {
	return binder.ConnectMerge(
		CreateMapStateToProps(mapState),
		CreateMapDispatchToProps(mapDispatch),
		merge,
	)
}
