package toolfix

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// JSON type names understood by Coerce.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// Coerce converts value toward one of the declared types, tried left to right.
// If value already satisfies any of them it is returned unchanged with repaired == false;
// a value that cannot be converted safely is also returned unchanged.
//
// Rules: "true"/"false"/"1"/"0" (any case) and the numbers 1/0 become booleans; numeric strings
// become numbers ("integer" rounds to the nearest whole number, halves upward); non-array values are wrapped in a
// one-element array; booleans and numbers are formatted as strings, objects and arrays JSON-encoded.
func Coerce(value any, types ...string) (coerced any, repaired bool) {
	for _, t := range types {
		if satisfies(value, t) {
			return value, false
		}
	}
	for _, t := range types {
		if out, ok := coerceTo(value, t); ok {
			return out, true
		}
	}
	return value, false
}

func coerceTo(value any, target string) (any, bool) {
	switch target {
	case TypeBoolean:
		switch v := value.(type) {
		case string:
			switch strings.ToLower(v) {
			case "true", "1":
				return true, true
			case "false", "0":
				return false, true
			}
		default:
			if f, ok := toFloat(value); ok {
				switch f {
				case 1:
					return true, true
				case 0:
					return false, true
				}
			}
		}
	case TypeNumber, TypeInteger:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		if target == TypeInteger {
			// Halves round up, so -1.5 becomes -1.
			f = math.Floor(f + 0.5)
		}
		return f, true
	case TypeString:
		switch v := value.(type) {
		case nil, string:
			return nil, false
		case bool:
			return strconv.FormatBool(v), true
		}
		if f, ok := toFloat(value); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		b, err := json.Marshal(value)
		if err != nil {
			return nil, false
		}
		return string(b), true
	case TypeArray:
		if jsonType(value) != TypeArray {
			return []any{value}, true
		}
	}
	return nil, false
}

// satisfies reports whether value is already of JSON type t.
func satisfies(value any, t string) bool {
	actual := jsonType(value)
	if actual == t {
		return true
	}
	if t == TypeInteger && actual == TypeNumber {
		f, _ := toFloat(value)
		return f == math.Trunc(f)
	}
	return false
}

// jsonType names the JSON type of a decoded Go value.
func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case map[string]any, *object:
		return TypeObject
	case []any:
		return TypeArray
	}
	if _, ok := toFloat(value); ok {
		return TypeNumber
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	}
	return TypeObject
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
