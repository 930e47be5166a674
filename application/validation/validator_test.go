package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalmysore/ucpexample/application/validation"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
)

type fixedPrimary struct {
	group entities.BusinessGroup
	ok    bool
}

func (f fixedPrimary) PrimaryGroup() (entities.BusinessGroup, bool) { return f.group, f.ok }

func TestTransportValidator_Validate(t *testing.T) {
	v := validation.New()

	restOnly := entities.NewBusinessGroup("compareCar", "compare", entities.TransportREST)
	rpcOnly := entities.NewBusinessGroup("carbooking", "booking", entities.TransportRPC)
	none := entities.NewBusinessGroup("favoriteCar", "favorites")

	tests := []struct {
		name      string
		desc      entities.CapabilityDescriptor
		group     entities.BusinessGroup
		wantErr   bool
		wantMatch error
	}{
		{
			name:  "rest under rest group",
			desc:  entities.NewCapabilityDescriptor("io.example.car_comparison", "1", "compareCar", entities.TransportREST),
			group: restOnly,
		},
		{
			name:      "rest under rpc-only group",
			desc:      entities.NewCapabilityDescriptor("io.example.car_comparison", "1", "carbooking", entities.TransportREST),
			group:     rpcOnly,
			wantErr:   true,
			wantMatch: &domainerrors.TransportMismatchError{},
		},
		{
			name:      "rpc under group without transports",
			desc:      entities.NewCapabilityDescriptor("io.example.book", "1", "favoriteCar", entities.TransportRPC),
			group:     none,
			wantErr:   true,
			wantMatch: &domainerrors.TransportMismatchError{},
		},
		{
			name:  "none under any group",
			desc:  entities.NewCapabilityDescriptor("io.example.sell_car", "1", "favoriteCar", entities.TransportNone),
			group: none,
		},
		{
			name:      "group name mismatch",
			desc:      entities.NewCapabilityDescriptor("io.example.x", "1", "other", entities.TransportNone),
			group:     none,
			wantErr:   true,
			wantMatch: &domainerrors.InvalidDefinitionError{},
		},
		{
			name:      "unqualified name",
			desc:      entities.NewCapabilityDescriptor("car_comparison", "1", "compareCar", entities.TransportREST),
			group:     restOnly,
			wantErr:   true,
			wantMatch: &domainerrors.InvalidDefinitionError{},
		},
		{
			name:      "missing version",
			desc:      entities.NewCapabilityDescriptor("io.example.x", "", "compareCar", entities.TransportREST),
			group:     restOnly,
			wantErr:   true,
			wantMatch: &domainerrors.InvalidDefinitionError{},
		},
		{
			name: "malformed spec uri",
			desc: entities.NewCapabilityDescriptor("io.example.x", "1", "compareCar", entities.TransportREST).
				WithURIs("not a url", ""),
			group:     restOnly,
			wantErr:   true,
			wantMatch: &domainerrors.InvalidDefinitionError{},
		},
		{
			name: "valid uris and path",
			desc: entities.NewCapabilityDescriptor("io.example.x", "1", "compareCar", entities.TransportREST).
				WithURIs("https://ucp.dev/specification/overview", "https://ucp.dev/schemas/shopping/checkout.json").
				WithPath("/compareCar"),
			group: restOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.desc, tt.group)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
			assert.IsType(t, tt.wantMatch, err)
		})
	}
}

func TestTransportValidator_Validate_FieldNames(t *testing.T) {
	v := validation.New()
	group := entities.NewBusinessGroup("g", "")

	err := v.Validate(entities.NewCapabilityDescriptor("Bad Name", "1", "g", entities.TransportNone), group)

	var def *domainerrors.InvalidDefinitionError
	require.ErrorAs(t, err, &def)
	assert.Equal(t, "name", def.Field)
	assert.Contains(t, err.Error(), "qualified")
}

func TestNew_WithStructValidator(t *testing.T) {
	structs := validator.New()

	var v *validation.TransportValidator
	require.NotPanics(t, func() {
		v = validation.New(validation.WithStructValidator(structs))
	})

	group := entities.NewBusinessGroup("g", "")
	assert.NoError(t, v.Validate(entities.NewCapabilityDescriptor("io.example.ok", "1", "g", entities.TransportNone), group))

	err := v.Validate(entities.NewCapabilityDescriptor("not qualified", "1", "g", entities.TransportNone), group)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// The tag is usable on the caller's validator too.
	assert.NoError(t, structs.Var("io.example.ok", "qualified"))
	assert.Error(t, structs.Var("nope", "qualified"))
}

func TestTransportValidator_ValidateGroup(t *testing.T) {
	v := validation.New()
	existing := entities.NewBusinessGroup("compareCar", "", entities.TransportREST).AsPrimary()

	t.Run("first primary", func(t *testing.T) {
		err := v.ValidateGroup(existing, fixedPrimary{})
		assert.NoError(t, err)
	})

	t.Run("nil lookup", func(t *testing.T) {
		assert.NoError(t, v.ValidateGroup(existing, nil))
	})

	t.Run("second primary", func(t *testing.T) {
		second := entities.NewBusinessGroup("carbooking", "", entities.TransportRPC).AsPrimary()
		err := v.ValidateGroup(second, fixedPrimary{group: existing, ok: true})

		var dup *domainerrors.DuplicatePrimaryBusinessError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "compareCar", dup.Existing)
		assert.Equal(t, "carbooking", dup.Group)
	})

	t.Run("second group without marker", func(t *testing.T) {
		second := entities.NewBusinessGroup("carbooking", "", entities.TransportRPC)
		assert.NoError(t, v.ValidateGroup(second, fixedPrimary{group: existing, ok: true}))
	})

	t.Run("empty name", func(t *testing.T) {
		err := v.ValidateGroup(entities.NewBusinessGroup("", ""), nil)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("none is not an exposable transport", func(t *testing.T) {
		err := v.ValidateGroup(entities.NewBusinessGroup("g", "", entities.TransportNone), nil)
		var def *domainerrors.InvalidDefinitionError
		require.ErrorAs(t, err, &def)
	})
}

func TestTransportValidator_ValidateSignature(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		sig     entities.Signature
		wantErr string
	}{
		{name: "empty", sig: nil},
		{name: "two strings", sig: entities.Signature{entities.StringParam("car1"), entities.StringParam("car2")}},
		{
			name: "object with schema",
			sig: entities.Signature{entities.ObjectParam("checkout",
				json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}}}`))},
		},
		{name: "empty name", sig: entities.Signature{entities.StringParam("")}, wantErr: "parameter name is empty"},
		{
			name:    "duplicate name",
			sig:     entities.Signature{entities.StringParam("car"), entities.NumberParam("car")},
			wantErr: `duplicate parameter "car"`,
		},
		{name: "unknown kind", sig: entities.Signature{{Name: "x", Kind: "date"}}, wantErr: "unknown parameter kind"},
		{
			name:    "schema on string",
			sig:     entities.Signature{{Name: "x", Kind: entities.ParamString, Schema: json.RawMessage(`{}`)}},
			wantErr: "schema given for string parameter",
		},
		{
			name:    "schema does not compile",
			sig:     entities.Signature{entities.ObjectParam("x", json.RawMessage(`{"type": 7}`))},
			wantErr: "invalid schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSignature("io.example.x", tt.sig)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}
