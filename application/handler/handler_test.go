package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalmysore/ucpexample/application/handler"
	"github.com/vishalmysore/ucpexample/domain/entities"
)

type bookingRequest struct {
	CarType  string `json:"carType"`
	Pickup   string `json:"pickup"`
	Quantity int    `json:"quantity,omitempty"`
}

type bookingResult struct {
	Confirmation string `json:"confirmationNumber"`
	CarType      string `json:"carType"`
}

func TestNew(t *testing.T) {
	sig := entities.Signature{entities.StringParam("model")}
	h := handler.New(sig, func(args []any) (any, error) {
		return "stock for " + args[0].(string), nil
	})

	got, err := h.Call([]any{"Civic"})
	require.NoError(t, err)
	assert.Equal(t, "stock for Civic", got)
	assert.Equal(t, sig, h.Signature())

	h.Signature()[0].Name = "mutated"
	assert.Equal(t, "model", h.Signature()[0].Name)
}

func TestNewContext(t *testing.T) {
	type key struct{}
	h := handler.NewContext(nil, func(ctx context.Context, _ []any) (any, error) {
		return ctx.Value(key{}), nil
	})

	got, err := h.CallContext(context.WithValue(context.Background(), key{}, "v"), nil)
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	got, err = h.Call(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStrings(t *testing.T) {
	h := handler.Strings([]string{"car1", "car2"}, func(args []string) (any, error) {
		return args[0] + " vs " + args[1], nil
	})

	assert.Equal(t, []string{"car1", "car2"}, h.Signature().Names())
	for _, p := range h.Signature() {
		assert.Equal(t, entities.ParamString, p.Kind)
	}

	got, err := h.Call([]any{"Toyota", "Honda"})
	require.NoError(t, err)
	assert.Equal(t, "Toyota vs Honda", got)
}

func TestStrings_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	h := handler.Strings([]string{"x"}, func([]string) (any, error) { return nil, boom })
	_, err := h.Call([]any{"a"})
	assert.ErrorIs(t, err, boom)
}

func TestJSON(t *testing.T) {
	h := handler.JSON("booking", func(_ context.Context, req bookingRequest) (bookingResult, error) {
		return bookingResult{Confirmation: "ABC123XYZ", CarType: req.CarType}, nil
	})

	sig := h.Signature()
	require.Len(t, sig, 1)
	assert.Equal(t, "booking", sig[0].Name)
	assert.Equal(t, entities.ParamObject, sig[0].Kind)
	assert.Contains(t, string(sig[0].Schema), "carType")

	t.Run("map argument", func(t *testing.T) {
		got, err := h.Call([]any{map[string]any{"carType": "SUV", "pickup": "Airport"}})
		require.NoError(t, err)
		assert.Equal(t, bookingResult{Confirmation: "ABC123XYZ", CarType: "SUV"}, got)
	})

	t.Run("typed argument", func(t *testing.T) {
		got, err := h.Call([]any{bookingRequest{CarType: "Sedan"}})
		require.NoError(t, err)
		assert.Equal(t, "Sedan", got.(bookingResult).CarType)
	})

	t.Run("undecodable argument", func(t *testing.T) {
		_, err := h.Call([]any{map[string]any{"quantity": "many"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal request")
	})
}
