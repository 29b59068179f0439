package store

import (
	"encoding/json"
	"fmt"

	"github.com/zoobzio/flip"
	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract for action documents.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var _ Codec = YAMLCodec{}

// DecodeActions decodes a document holding either a list of actions or a
// single action.
func DecodeActions(codec Codec, raw []byte) ([]flip.Action, error) {
	var list []flip.Action
	if err := codec.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single flip.Action
	if err := codec.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode %s actions: %w", codec.ContentType(), err)
	}
	return []flip.Action{single}, nil
}
