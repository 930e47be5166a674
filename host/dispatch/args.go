package dispatch

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/vishalmysore/ucpexample/application/schema"
	"github.com/vishalmysore/ucpexample/application/validation"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
)

// checkArgs reports the first position whose argument does not fit sig.
func (d *Dispatcher) checkArgs(name string, sig entities.Signature, args []any) error {
	n := max(len(sig), len(args))
	for i := range n {
		switch {
		case i >= len(args):
			return &domainerrors.ArgumentMismatchError{
				Capability: name, Position: i, Param: sig[i].Name, Reason: "missing argument",
			}
		case i >= len(sig):
			return &domainerrors.ArgumentMismatchError{
				Capability: name, Position: i, Reason: fmt.Sprintf("unexpected argument of type %T", args[i]),
			}
		}

		if reason := d.checkParam(name, sig[i], args[i]); reason != "" {
			return &domainerrors.ArgumentMismatchError{
				Capability: name, Position: i, Param: sig[i].Name, Reason: reason,
			}
		}
	}
	return nil
}

// checkParam returns an empty string when arg fits p.
func (d *Dispatcher) checkParam(name string, p entities.Param, arg any) string {
	switch p.Kind {
	case entities.ParamAny:
		return ""
	case entities.ParamString:
		if arg != nil && reflect.TypeOf(arg).Kind() == reflect.String {
			return ""
		}
	case entities.ParamNumber:
		if isNumber(arg) {
			return ""
		}
	case entities.ParamObject:
		if !isObject(arg) {
			break
		}
		if len(p.Schema) == 0 {
			return ""
		}
		v, err := d.validator(name, p)
		if err != nil {
			return err.Error()
		}
		if err := v.Validate(arg); err != nil {
			return fmt.Sprintf("does not match schema: %v", err)
		}
		return ""
	default:
		return fmt.Sprintf("unsupported parameter kind %q", p.Kind)
	}
	return fmt.Sprintf("expected %s, got %s", p.Kind, typeName(arg))
}

// validator returns the compiled schema of an object parameter, compiling
// it on first use.
func (d *Dispatcher) validator(name string, p entities.Param) (*schema.Validator, error) {
	id := validation.SchemaID(name, p.Name)
	if v, ok := d.schemas.Load(id); ok {
		return v.(*schema.Validator), nil
	}
	v, err := schema.Compile(id, p.Schema)
	if err != nil {
		return nil, err
	}
	actual, _ := d.schemas.LoadOrStore(id, v)
	return actual.(*schema.Validator), nil
}

func isNumber(arg any) bool {
	if _, ok := arg.(json.Number); ok {
		return true
	}
	if arg == nil {
		return false
	}
	switch reflect.TypeOf(arg).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isObject(arg any) bool {
	if arg == nil {
		return false
	}
	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return v.Type().Key().Kind() == reflect.String
	}
	return false
}

func typeName(arg any) string {
	if arg == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", arg)
}
