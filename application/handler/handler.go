// Package handler provides constructors that adapt plain Go functions into
// ports.Handler values.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/vishalmysore/ucpexample/application/schema"
	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// Func is a handler backed by a function over ordered arguments.
type Func struct {
	fn  func(ctx context.Context, args []any) (any, error)
	sig entities.Signature
}

var _ ports.ContextHandler = (*Func)(nil)

// New wraps fn, which receives arguments already checked against sig.
func New(sig entities.Signature, fn func(args []any) (any, error)) *Func {
	return &Func{
		sig: slices.Clone(sig),
		fn: func(_ context.Context, args []any) (any, error) {
			return fn(args)
		},
	}
}

// NewContext wraps a context-aware fn.
func NewContext(sig entities.Signature, fn func(ctx context.Context, args []any) (any, error)) *Func {
	return &Func{sig: slices.Clone(sig), fn: fn}
}

// Signature implements ports.Handler.
func (f *Func) Signature() entities.Signature {
	return slices.Clone(f.sig)
}

// Call implements ports.Handler.
func (f *Func) Call(args []any) (any, error) {
	return f.fn(context.Background(), args)
}

// CallContext implements ports.ContextHandler.
func (f *Func) CallContext(ctx context.Context, args []any) (any, error) {
	return f.fn(ctx, args)
}

// Strings wraps fn over string parameters with the given names.
//
// Usage:
//
//	compare := handler.Strings([]string{"car1", "car2"}, func(args []string) (any, error) {
//	    return args[0] + " is better than " + args[1], nil
//	})
func Strings(names []string, fn func(args []string) (any, error)) *Func {
	sig := make(entities.Signature, len(names))
	for i, n := range names {
		sig[i] = entities.StringParam(n)
	}
	return New(sig, func(args []any) (any, error) {
		strs := make([]string, len(args))
		for i, a := range args {
			s, ok := a.(string)
			if !ok {
				// Named string types pass the dispatcher's kind check.
				s = fmt.Sprint(a)
			}
			strs[i] = s
		}
		return fn(strs)
	})
}

// TypedFunc is a handler function over one typed request object.
type TypedFunc[Req any, Resp any] func(context.Context, Req) (Resp, error)

// JSON wraps a typed function into a handler with a single object parameter
// named param. The parameter schema is reflected from Req, and the argument
// is decoded into Req through JSON.
//
// Usage:
//
//	book := handler.JSON("booking", func(ctx context.Context, req BookingRequest) (BookingResult, error) {
//	    return BookingResult{Confirmation: "ABC123XYZ"}, nil
//	})
func JSON[Req any, Resp any](param string, fn TypedFunc[Req, Resp]) *Func {
	var zero Req
	sig := entities.Signature{entities.ObjectParam(param, schema.MustForModel(zero))}

	return NewContext(sig, func(ctx context.Context, args []any) (any, error) {
		req, err := decode[Req](args[0])
		if err != nil {
			return nil, err
		}
		return fn(ctx, req)
	})
}

func decode[T any](arg any) (T, error) {
	var out T
	if typed, ok := arg.(T); ok {
		return typed, nil
	}
	payload, err := json.Marshal(arg)
	if err != nil {
		return out, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return out, nil
}
