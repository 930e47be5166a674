package entities

import (
	"maps"
	"reflect"
)

// ResultEnvelope is the uniform shape every dispatch returns, whatever the transport.
type ResultEnvelope struct {
	// Value is the raw value produced by the handler.
	Value any `json:"value"`

	// Message is an optional human-readable description of the value.
	Message string `json:"message,omitempty"`

	// Metadata carries optional structured attributes set by the handler or middleware.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Of wraps a bare value.
func Of(value any) ResultEnvelope {
	return ResultEnvelope{Value: value}
}

// OfMessage wraps a value together with a message.
func OfMessage(value any, message string) ResultEnvelope {
	return ResultEnvelope{Value: value, Message: message}
}

// WithMetadata returns a copy of the envelope with key set in its metadata.
// The receiver's metadata map is never mutated.
func (e ResultEnvelope) WithMetadata(key string, value any) ResultEnvelope {
	md := make(map[string]any, len(e.Metadata)+1)
	maps.Copy(md, e.Metadata)
	md[key] = value
	e.Metadata = md
	return e
}

// Clone returns a copy whose metadata map is independent of the receiver's.
func (e ResultEnvelope) Clone() ResultEnvelope {
	if e.Metadata != nil {
		e.Metadata = maps.Clone(e.Metadata)
	}
	return e
}

// HasMessage reports whether a message was set.
func (e ResultEnvelope) HasMessage() bool {
	return e.Message != ""
}

// Equal reports deep equality of value, message and metadata.
// A nil and an empty metadata map compare equal.
func (e ResultEnvelope) Equal(other ResultEnvelope) bool {
	if e.Message != other.Message {
		return false
	}
	if len(e.Metadata) != 0 || len(other.Metadata) != 0 {
		if !reflect.DeepEqual(e.Metadata, other.Metadata) {
			return false
		}
	}
	return reflect.DeepEqual(e.Value, other.Value)
}
