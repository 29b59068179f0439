package flip

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrPayloadMismatch is returned when an action's payload cannot be converted
// to the payload type its handler expects.
var ErrPayloadMismatch = errors.New("payload does not match handler")

var errMissingPayload = errors.New("missing payload")

// Action is a tagged payload describing something that happened.
type Action struct {
	Type    string `json:"type" yaml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// ActionCreator pairs an action tag with the handler that turns the action's
// payload into a Mutator. It produces actions through Create and is consumed
// by CreateActionMap through the Definition interface.
type ActionCreator[S, P any] struct {
	tag     string
	handler func(P) Mutator[S]
}

// CreateAction declares an action. Tags should be unique across an
// application; uniqueness is not checked here.
//
//	var CompleteTodo = flip.CreateAction("COMPLETE_TODO", func(id string) flip.Mutator[State] {
//	    return flip.ApplyMutations(dropTask(id), removeTaskID(id))
//	})
func CreateAction[S, P any](tag string, handler func(P) Mutator[S]) *ActionCreator[S, P] {
	return &ActionCreator[S, P]{tag: tag, handler: handler}
}

// Create returns an action carrying this creator's tag and the given payload.
func (c *ActionCreator[S, P]) Create(payload P) Action {
	return Action{Type: c.tag, Payload: payload}
}

// Type returns the action tag.
func (c *ActionCreator[S, P]) Type() string {
	return c.tag
}

// Handler returns the payload handler the creator was declared with.
func (c *ActionCreator[S, P]) Handler() func(P) Mutator[S] {
	return c.handler
}

// Handle converts the action payload to P and returns the handler's Mutator.
// The action tag is not checked; routing is the action map's job.
func (c *ActionCreator[S, P]) Handle(action Action) (Mutator[S], error) {
	payload, err := decodePayload[P](action.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPayloadMismatch, c.tag, err)
	}
	return c.handler(payload), nil
}

// decodePayload recovers a typed payload. Values already of type P pass
// through; anything else, typically maps decoded from JSON or YAML, is
// decoded with mapstructure using json tags. A nil payload yields the zero P
// unless P is a struct, which has no meaningful zero payload.
func decodePayload[P any](raw any) (P, error) {
	if payload, ok := raw.(P); ok {
		return payload, nil
	}

	var payload P
	if raw == nil {
		if reflect.TypeFor[P]().Kind() == reflect.Struct {
			return payload, errMissingPayload
		}
		return payload, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &payload,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return payload, err
	}
	if err := decoder.Decode(raw); err != nil {
		return payload, err
	}
	return payload, nil
}
