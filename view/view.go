// Package view is a view-binding runtime for flip: it connects components to
// a store-like Source, computing their props from the current state on every
// render.
//
//	binding := view.New[todo.State, todo.OwnProps, todo.ListProps, todo.ListActions](st)
//	list := flip.Connect(binding, todo.MapState, todo.MapDispatch)(todo.Render)
//
//	unmount := view.Mount(st, list, todo.OwnProps{Title: "Today"}, func(out string) {
//	    fmt.Println(out)
//	})
//	defer unmount()
package view

import (
	"context"

	"github.com/zoobzio/flip"
)

// Source is the store surface the runtime needs. *store.Store satisfies it.
type Source[S any] interface {
	State() S
	Dispatch(ctx context.Context, action flip.Action) error
	Subscribe(fn func(prev, curr S)) (unsubscribe func())
}

// Binding implements flip.Binder over a Source.
type Binding[S, Own, SP, DP any] struct {
	src Source[S]
}

// New creates a Binding over src.
func New[S, Own, SP, DP any](src Source[S]) *Binding[S, Own, SP, DP] {
	return &Binding[S, Own, SP, DP]{src: src}
}

var _ flip.Binder[int, struct{}, int, int] = (*Binding[int, struct{}, int, int])(nil)

// Connect injects only own props and the raw dispatch.
func (b *Binding[S, Own, SP, DP]) Connect() flip.Enhancer[Own, flip.Props[Own, SP, DP]] {
	return b.enhance(nil, nil)
}

// ConnectState adds state props; the raw dispatch is still injected.
func (b *Binding[S, Own, SP, DP]) ConnectState(mapState flip.MapStateToProps[S, Own, SP]) flip.Enhancer[Own, flip.Props[Own, SP, DP]] {
	return b.enhance(mapState, nil)
}

// ConnectBoth adds state props, when mapState is non-nil, and dispatch props.
// The raw dispatch is not injected.
func (b *Binding[S, Own, SP, DP]) ConnectBoth(mapState flip.MapStateToProps[S, Own, SP], mapDispatch flip.MapDispatchToProps[Own, DP]) flip.Enhancer[Own, flip.Props[Own, SP, DP]] {
	return b.enhance(mapState, mapDispatch)
}

func (b *Binding[S, Own, SP, DP]) enhance(mapState flip.MapStateToProps[S, Own, SP], mapDispatch flip.MapDispatchToProps[Own, DP]) flip.Enhancer[Own, flip.Props[Own, SP, DP]] {
	dispatch := flip.Dispatch(b.src.Dispatch)
	return func(inner flip.Component[flip.Props[Own, SP, DP]]) flip.Component[Own] {
		return func(own Own) string {
			props := flip.Props[Own, SP, DP]{Own: own}
			if mapState != nil {
				props.State = mapState(b.src.State(), own)
			}
			if mapDispatch != nil {
				props.Actions = mapDispatch(dispatch, own)
			} else {
				props.Dispatch = dispatch
			}
			return inner(props)
		}
	}
}

// Merged implements flip.MergeBinder over a Source.
type Merged[S, Own, SP, DP, P any] struct {
	src Source[S]
}

// NewMerged creates a Merged binding over src.
func NewMerged[S, Own, SP, DP, P any](src Source[S]) *Merged[S, Own, SP, DP, P] {
	return &Merged[S, Own, SP, DP, P]{src: src}
}

var _ flip.MergeBinder[int, struct{}, int, int, int] = (*Merged[int, struct{}, int, int, int])(nil)

// ConnectMerge computes state and dispatch props, either of which is the zero
// value when its mapper is nil, and hands them to merge.
func (m *Merged[S, Own, SP, DP, P]) ConnectMerge(mapState flip.MapStateToProps[S, Own, SP], mapDispatch flip.MapDispatchToProps[Own, DP], merge flip.MergeProps[SP, DP, Own, P]) flip.Enhancer[Own, P] {
	dispatch := flip.Dispatch(m.src.Dispatch)
	return func(inner flip.Component[P]) flip.Component[Own] {
		return func(own Own) string {
			var (
				stateProps    SP
				dispatchProps DP
			)
			if mapState != nil {
				stateProps = mapState(m.src.State(), own)
			}
			if mapDispatch != nil {
				dispatchProps = mapDispatch(dispatch, own)
			}
			return inner(merge(stateProps, dispatchProps, own))
		}
	}
}

// Mount renders component with own props into out, then again after every
// state change until the returned function is called.
func Mount[S, Own any](src Source[S], component flip.Component[Own], own Own, out func(string)) (unmount func()) {
	out(component(own))
	return src.Subscribe(func(_, _ S) {
		out(component(own))
	})
}
