// Package schema reflects JSON schemas from Go types and compiles schemas used
// to validate object arguments at dispatch time.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema creates an indented JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v any) ([]byte, error) {
	s := reflect(v)

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// ForModel returns the compact schema of a Go struct, suitable for
// entities.Param.Schema.
func ForModel(model any) (json.RawMessage, error) {
	data, err := json.Marshal(reflect(model))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %T: %w", model, err)
	}
	return data, nil
}

// MustForModel is ForModel for package-level handler declarations.
func MustForModel(model any) json.RawMessage {
	data, err := ForModel(model)
	if err != nil {
		panic(err)
	}
	return data
}

func reflect(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		Anonymous:      true, // Compiled under a capability-scoped resource id instead
	}
	return reflector.Reflect(v)
}
