package flip

import "sort"

// ActionHandler resolves an action into the Mutator that applies it.
type ActionHandler[S any] func(Action) (Mutator[S], error)

// Definition is what CreateActionMap needs from an action declaration.
// Every *ActionCreator[S, P] satisfies it regardless of its payload type.
type Definition[S any] interface {
	Type() string
	Handle(Action) (Mutator[S], error)
}

// ActionMap routes action tags to their handlers. It is read-only once built.
// A nil *ActionMap behaves as an empty map.
type ActionMap[S any] struct {
	handlers map[string]ActionHandler[S]
}

// CreateActionMap collects definitions into an ActionMap keyed by tag.
// When two definitions share a tag the later one wins.
func CreateActionMap[S any](defs ...Definition[S]) *ActionMap[S] {
	handlers := make(map[string]ActionHandler[S], len(defs))
	for _, def := range defs {
		handlers[def.Type()] = def.Handle
	}
	return &ActionMap[S]{handlers: handlers}
}

// Lookup returns the handler registered for tag.
func (m *ActionMap[S]) Lookup(tag string) (ActionHandler[S], bool) {
	if m == nil {
		return nil, false
	}
	handler, ok := m.handlers[tag]
	return handler, ok
}

// Len returns the number of registered tags.
func (m *ActionMap[S]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.handlers)
}

// Types returns the registered tags in sorted order.
func (m *ActionMap[S]) Types() []string {
	if m == nil {
		return nil
	}
	types := make([]string, 0, len(m.handlers))
	for tag := range m.handlers {
		types = append(types, tag)
	}
	sort.Strings(types)
	return types
}
