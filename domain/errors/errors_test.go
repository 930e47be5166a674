package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportMismatchError(t *testing.T) {
	err := &TransportMismatchError{
		Capability: "io.example.car_comparison",
		Group:      "compareCar",
		Declared:   entities.TransportREST,
		Exposed:    []entities.Transport{entities.TransportRPC},
	}

	assert.Equal(t, "capability io.example.car_comparison declares transport rest but group compareCar exposes [rpc]", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrRegistry))
	assert.False(t, errors.Is(err, ErrDispatch))
	assert.True(t, IsRegistrationError(err))
}

func TestDuplicatePrimaryBusinessError(t *testing.T) {
	err := &DuplicatePrimaryBusinessError{Group: "carbooking", Existing: "compareCar"}

	assert.Equal(t, "group carbooking cannot be the primary business: compareCar already is", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestInvalidDefinitionError(t *testing.T) {
	base := fmt.Errorf("must not be empty")
	err := &InvalidDefinitionError{Subject: "io.example.x", Field: "Version", Err: base}

	assert.Equal(t, "invalid definition io.example.x: field Version: must not be empty", err.Error())
	assert.True(t, errors.Is(err, base))
	assert.True(t, errors.Is(err, ErrValidation))

	noField := &InvalidDefinitionError{Subject: "g", Err: base}
	assert.Equal(t, "invalid definition g: must not be empty", noField.Error())
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		msg  string
		code string
	}{
		{name: "duplicate capability", err: &DuplicateCapabilityError{Name: "a.b"}, msg: "capability a.b already registered", code: "duplicate_capability"},
		{name: "duplicate group", err: &DuplicateGroupError{Name: "g"}, msg: "group g already registered", code: "duplicate_group"},
		{name: "unknown group", err: &UnknownGroupError{Group: "g", Capability: "a.b"}, msg: "capability a.b references unknown group g", code: "unknown_group"},
		{name: "sealed", err: &RegistrySealedError{Operation: "register", Name: "a.b"}, msg: "registry sealed: cannot register a.b", code: "registry_sealed"},
		{name: "unknown binding", err: &UnknownBindingError{Capability: "a.b", Binding: "compare"}, msg: `capability a.b binds unknown handler "compare"`, code: "unknown_binding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrRegistry))
			assert.False(t, errors.Is(tt.err, ErrDispatch))
			assert.True(t, IsRegistrationError(tt.err))

			detail := ToErrorDetail(tt.err)
			require.NotNil(t, detail)
			assert.Equal(t, "registry", detail.Type)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestArgumentMismatchError(t *testing.T) {
	err := &ArgumentMismatchError{Capability: "a.b", Position: 1, Param: "car2", Reason: "expected string, got int"}
	assert.Equal(t, "capability a.b: argument 1 (car2): expected string, got int", err.Error())
	assert.True(t, errors.Is(err, ErrDispatch))
	assert.False(t, IsRegistrationError(err))

	surplus := &ArgumentMismatchError{Capability: "a.b", Position: 2, Reason: "unexpected argument"}
	assert.Equal(t, "capability a.b: argument 2: unexpected argument", surplus.Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, 1, detail.Details["position"])
	assert.Equal(t, "car2", detail.Details["param"])
}

func TestHandlerFailureError(t *testing.T) {
	cause := fmt.Errorf("inventory offline")
	err := &HandlerFailureError{Capability: "a.b", Cause: cause}

	assert.Equal(t, "capability a.b failed: inventory offline", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrDispatch))
	assert.False(t, err.Panicked())

	var hf *HandlerFailureError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &hf))
	assert.Same(t, cause, hf.Cause)

	detail := err.ToErrorDetail()
	require.NotNil(t, detail.Wrapped)
	assert.Equal(t, "internal", detail.Wrapped.Type)
	assert.Equal(t, "inventory offline", detail.Wrapped.Message)
}

func TestHandlerFailureError_Panic(t *testing.T) {
	err := &HandlerFailureError{Capability: "a.b", Cause: &PanicError{Value: "boom"}, Stack: []byte("goroutine 1")}
	assert.True(t, err.Panicked())
	assert.Equal(t, "capability a.b failed: panic: boom", err.Error())
}

func TestCapabilityNotFoundError(t *testing.T) {
	err := &CapabilityNotFoundError{Name: "a.missing"}
	assert.Equal(t, "capability a.missing not found", err.Error())

	detail := ToErrorDetail(fmt.Errorf("dispatch: %w", err))
	assert.Equal(t, "capability_not_found", detail.Code)
	assert.True(t, detail.IsNotFound)
}

func TestToErrorDetail(t *testing.T) {
	assert.Nil(t, ToErrorDetail(nil))

	generic := ToErrorDetail(fmt.Errorf("plain"))
	assert.Equal(t, "internal", generic.Type)
	assert.Equal(t, "plain", generic.Message)

	existing := &entities.ErrorDetail{Type: "dispatch", Message: "already structured", Code: "x"}
	assert.Same(t, existing, ToErrorDetail(existing))
}
