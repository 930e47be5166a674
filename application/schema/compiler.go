package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates decoded values against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
	id     string
}

// Compile compiles a raw JSON schema. The id names the schema resource and
// appears in validation messages.
func Compile(id string, raw json.RawMessage) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(id, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", id, err)
	}

	sch, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", id, err)
	}

	return &Validator{schema: sch, id: id}, nil
}

// Validate checks v against the schema. Go values are first converted to
// their JSON form so structs and typed maps validate like decoded JSON.
func (v *Validator) Validate(value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}

	if err := v.schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s", describe(ve))
		}
		return err
	}
	return nil
}

// describe returns the most specific leaf message of a validation error tree.
func describe(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
