// Package params maps named argument sets, as sent by REST forms and
// JSON-RPC named params, onto the ordered arguments a handler signature
// expects, and extracts typed values from loosely typed arguments.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// Named is a named argument set.
type Named = map[string]any

// UnknownParamError is returned when a named argument matches no parameter.
type UnknownParamError struct {
	Names []string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("unknown parameter(s): %s", strings.Join(e.Names, ", "))
}

// ToErrorDetail implements errors.DetailedError.
func (e *UnknownParamError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "dispatch",
		Code:    "unknown_parameter",
		Details: map[string]any{"names": e.Names},
	}
}

// Order returns named values in signature order, coercing each with Coerce.
// The result stops at the first parameter with no value, so the dispatcher
// reports that position as missing.
func Order(sig entities.Signature, named Named) ([]any, error) {
	var unknown []string
	for name := range named {
		if sig.Index(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, &UnknownParamError{Names: unknown}
	}

	args := make([]any, 0, len(sig))
	for _, p := range sig {
		v, ok := named[p.Name]
		if !ok {
			break
		}
		args = append(args, Coerce(p, v))
	}
	return args, nil
}

// FromValues converts form or query values into a named set, keeping the
// first value of each key.
func FromValues(values url.Values) Named {
	named := make(Named, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			named[k] = vs[0]
		}
	}
	return named
}

// Coerce converts string values into the parameter kind when the string
// parses as one. Other values are returned unchanged; a value that still does
// not fit is left for the dispatcher to reject.
func Coerce(p entities.Param, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch p.Kind {
	case entities.ParamNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return json.Number(strings.TrimSpace(s))
		}
	case entities.ParamObject:
		var obj map[string]any
		if err := json.Unmarshal([]byte(s), &obj); err == nil && obj != nil {
			return obj
		}
	}
	return v
}

// GetString extracts a string, returning (value, found).
func GetString(named Named, key string) (string, bool) {
	v, ok := named[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetFloat extracts a float64, returning (value, found).
func GetFloat(named Named, key string) (float64, bool) {
	v, ok := named[key]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// GetStringDefault extracts a string or returns the default value.
func GetStringDefault(named Named, key, defaultValue string) string {
	s, ok := GetString(named, key)
	if !ok {
		return defaultValue
	}
	return s
}

// ToFloat converts any numeric argument, including json.Number and named
// numeric types, to float64.
func ToFloat(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ToInt64 converts an integral numeric argument to int64. Floats with a
// fractional part and unsigned values above math.MaxInt64 are rejected.
func ToInt64(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	} else if v != nil {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u := rv.Uint()
			return int64(u), u <= math.MaxInt64
		}
	}
	f, ok := ToFloat(v)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
