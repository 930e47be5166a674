package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/vishalmysore/ucpexample/application/params"
	"github.com/vishalmysore/ucpexample/domain/entities"
)

// argsFromJSON decodes positional (array) or named (object) arguments.
// Empty input and null yield no arguments.
func argsFromJSON(raw []byte, sig entities.Signature) ([]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	switch raw[0] {
	case '[':
		var positional []any
		if err := decodeAll(dec, &positional); err != nil {
			return nil, err
		}
		return positional, nil
	case '{':
		var named map[string]any
		if err := decodeAll(dec, &named); err != nil {
			return nil, err
		}
		return params.Order(sig, named)
	default:
		return nil, &requestError{err: errors.New("arguments must be a JSON array or object")}
	}
}

func decodeAll(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return &requestError{err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &requestError{err: errors.New("unexpected data after arguments")}
	}
	return nil
}
