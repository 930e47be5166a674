// Package errors provides the typed errors of the capability host.
// All error types support error unwrapping via errors.As() and errors.Is(),
// and each one matches exactly one category sentinel: ErrValidation,
// ErrRegistry or ErrDispatch.
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// Category sentinels. Match with errors.Is(err, ErrRegistry) and so on.
var (
	// ErrValidation groups registration-time definition problems.
	ErrValidation = stdErrors.New("validation error")

	// ErrRegistry groups registry state conflicts.
	ErrRegistry = stdErrors.New("registry error")

	// ErrDispatch groups per-call dispatch failures.
	ErrDispatch = stdErrors.New("dispatch error")
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by errors that can convert themselves into a
// structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// IsRegistrationError reports whether err must abort startup.
func IsRegistrationError(err error) bool {
	return stdErrors.Is(err, ErrValidation) || stdErrors.Is(err, ErrRegistry)
}

// TransportMismatchError is returned when a capability declares a transport
// its group does not expose.
type TransportMismatchError struct {
	Capability string
	Group      string
	Declared   entities.Transport
	Exposed    []entities.Transport
}

func (e *TransportMismatchError) Error() string {
	exposed := make([]string, len(e.Exposed))
	for i, t := range e.Exposed {
		exposed[i] = string(t)
	}
	return fmt.Sprintf("capability %s declares transport %s but group %s exposes [%s]",
		e.Capability, e.Declared, e.Group, strings.Join(exposed, ", "))
}

func (e *TransportMismatchError) Is(target error) bool { return target == ErrValidation }

// ToErrorDetail implements DetailedError.
func (e *TransportMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "transport_mismatch"}
}

// DuplicatePrimaryBusinessError is returned when a second group is marked primary.
type DuplicatePrimaryBusinessError struct {
	Group    string
	Existing string
}

func (e *DuplicatePrimaryBusinessError) Error() string {
	return fmt.Sprintf("group %s cannot be the primary business: %s already is", e.Group, e.Existing)
}

func (e *DuplicatePrimaryBusinessError) Is(target error) bool { return target == ErrValidation }

// ToErrorDetail implements DetailedError.
func (e *DuplicatePrimaryBusinessError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "duplicate_primary_business"}
}

// InvalidDefinitionError reports a malformed group, descriptor or signature.
type InvalidDefinitionError struct {
	Err     error
	Subject string // group or capability name
	Field   string
}

func (e *InvalidDefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid definition %s: field %s: %v", e.Subject, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid definition %s: %v", e.Subject, e.Err)
}

func (e *InvalidDefinitionError) Unwrap() error { return e.Err }

func (e *InvalidDefinitionError) Is(target error) bool { return target == ErrValidation }

// ToErrorDetail implements DetailedError.
func (e *InvalidDefinitionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "invalid_definition"}
}

// DuplicateCapabilityError is returned when a qualified name is registered twice.
type DuplicateCapabilityError struct {
	Name string
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("capability %s already registered", e.Name)
}

func (e *DuplicateCapabilityError) Is(target error) bool { return target == ErrRegistry }

// ToErrorDetail implements DetailedError.
func (e *DuplicateCapabilityError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "registry", Code: "duplicate_capability"}
}

// DuplicateGroupError is returned when a group name is registered twice.
type DuplicateGroupError struct {
	Name string
}

func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("group %s already registered", e.Name)
}

func (e *DuplicateGroupError) Is(target error) bool { return target == ErrRegistry }

// ToErrorDetail implements DetailedError.
func (e *DuplicateGroupError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "registry", Code: "duplicate_group"}
}

// UnknownGroupError is returned when a capability references an unregistered group.
type UnknownGroupError struct {
	Group      string
	Capability string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("capability %s references unknown group %s", e.Capability, e.Group)
}

func (e *UnknownGroupError) Is(target error) bool { return target == ErrRegistry }

// ToErrorDetail implements DetailedError.
func (e *UnknownGroupError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "registry", Code: "unknown_group", IsNotFound: true}
}

// RegistrySealedError is returned by writes after the registry was sealed.
type RegistrySealedError struct {
	Operation string
	Name      string
}

func (e *RegistrySealedError) Error() string {
	return fmt.Sprintf("registry sealed: cannot %s %s", e.Operation, e.Name)
}

func (e *RegistrySealedError) Is(target error) bool { return target == ErrRegistry }

// ToErrorDetail implements DetailedError.
func (e *RegistrySealedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "registry", Code: "registry_sealed"}
}

// UnknownBindingError is returned at bootstrap when a manifest binding names
// no handler in the catalog.
type UnknownBindingError struct {
	Capability string
	Binding    string
}

func (e *UnknownBindingError) Error() string {
	return fmt.Sprintf("capability %s binds unknown handler %q", e.Capability, e.Binding)
}

func (e *UnknownBindingError) Is(target error) bool { return target == ErrRegistry }

// ToErrorDetail implements DetailedError.
func (e *UnknownBindingError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "registry", Code: "unknown_binding", IsNotFound: true}
}

// CapabilityNotFoundError is returned when dispatch cannot resolve a name.
type CapabilityNotFoundError struct {
	Name string
}

func (e *CapabilityNotFoundError) Error() string {
	return fmt.Sprintf("capability %s not found", e.Name)
}

func (e *CapabilityNotFoundError) Is(target error) bool { return target == ErrDispatch }

// ToErrorDetail implements DetailedError.
func (e *CapabilityNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "dispatch", Code: "capability_not_found", IsNotFound: true}
}

// ArgumentMismatchError names the first argument position that does not fit
// the handler signature.
type ArgumentMismatchError struct {
	Capability string
	Param      string // empty for surplus arguments
	Reason     string
	Position   int
}

func (e *ArgumentMismatchError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("capability %s: argument %d (%s): %s", e.Capability, e.Position, e.Param, e.Reason)
	}
	return fmt.Sprintf("capability %s: argument %d: %s", e.Capability, e.Position, e.Reason)
}

func (e *ArgumentMismatchError) Is(target error) bool { return target == ErrDispatch }

// ToErrorDetail implements DetailedError.
func (e *ArgumentMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "dispatch",
		Code:    "argument_mismatch",
		Details: map[string]any{"position": e.Position, "param": e.Param},
	}
}

// HandlerFailureError wraps any error returned or panic raised by a handler.
type HandlerFailureError struct {
	Cause      error
	Capability string
	Stack      []byte // set for recovered panics
}

func (e *HandlerFailureError) Error() string {
	return fmt.Sprintf("capability %s failed: %v", e.Capability, e.Cause)
}

func (e *HandlerFailureError) Unwrap() error { return e.Cause }

func (e *HandlerFailureError) Is(target error) bool { return target == ErrDispatch }

// Panicked reports whether the failure came from a recovered panic.
func (e *HandlerFailureError) Panicked() bool {
	return len(e.Stack) > 0
}

// ToErrorDetail implements DetailedError.
func (e *HandlerFailureError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "dispatch", Code: "handler_failure"}
	if e.Cause != nil {
		detail.Wrapped = ToErrorDetail(e.Cause)
	}
	return detail
}

// PanicError is the cause recorded when a handler panics with a non-error value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
