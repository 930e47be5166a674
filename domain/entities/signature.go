package entities

import "encoding/json"

// ParamKind is the argument type a handler parameter accepts.
type ParamKind string

const (
	// ParamString accepts Go strings.
	ParamString ParamKind = "string"

	// ParamNumber accepts any Go integer or float type and json.Number.
	ParamNumber ParamKind = "number"

	// ParamObject accepts maps with string keys and structs.
	ParamObject ParamKind = "object"

	// ParamAny accepts every value, including nil.
	ParamAny ParamKind = "any"
)

// Known reports whether k is one of the defined kinds.
func (k ParamKind) Known() bool {
	switch k {
	case ParamString, ParamNumber, ParamObject, ParamAny:
		return true
	}
	return false
}

// Param is one named, ordered handler parameter.
type Param struct {
	Name string    `json:"name"`
	Kind ParamKind `json:"kind"`

	// Schema optionally constrains an object parameter with a JSON Schema document.
	Schema json.RawMessage `json:"schema,omitempty"`
}

// StringParam declares a string parameter.
func StringParam(name string) Param {
	return Param{Name: name, Kind: ParamString}
}

// NumberParam declares a numeric parameter.
func NumberParam(name string) Param {
	return Param{Name: name, Kind: ParamNumber}
}

// ObjectParam declares an object parameter with an optional schema.
func ObjectParam(name string, schema json.RawMessage) Param {
	return Param{Name: name, Kind: ParamObject, Schema: schema}
}

// Signature is the ordered parameter list of a handler.
type Signature []Param

// Names returns the parameter names in order.
func (s Signature) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// Index returns the position of the named parameter, or -1.
func (s Signature) Index(name string) int {
	for i, p := range s {
		if p.Name == name {
			return i
		}
	}
	return -1
}
