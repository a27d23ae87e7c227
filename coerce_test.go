package toolfix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    any
		types    []string
		want     any
		repaired bool
	}{
		{"string true", "true", []string{TypeBoolean}, true, true},
		{"string false", "false", []string{TypeBoolean}, false, true},
		{"string 1", "1", []string{TypeBoolean}, true, true},
		{"string 0", "0", []string{TypeBoolean}, false, true},
		{"upper case TRUE", "TRUE", []string{TypeBoolean}, true, true},
		{"yes is not a boolean", "yes", []string{TypeBoolean}, "yes", false},
		{"number 1", float64(1), []string{TypeBoolean}, true, true},
		{"number 0", 0, []string{TypeBoolean}, false, true},
		{"number 2 is not a boolean", float64(2), []string{TypeBoolean}, float64(2), false},
		{"numeric string", "42", []string{TypeNumber}, float64(42), true},
		{"decimal string", "3.14", []string{TypeNumber}, 3.14, true},
		{"padded numeric string", " 7 ", []string{TypeNumber}, float64(7), true},
		{"integer rounds", "1.7", []string{TypeInteger}, float64(2), true},
		{"integer rounds half up", "2.5", []string{TypeInteger}, float64(3), true},
		{"negative half rounds toward zero", "-1.5", []string{TypeInteger}, float64(-1), true},
		{"negative rounds to nearest", "-1.6", []string{TypeInteger}, float64(-2), true},
		{"non-numeric string", "abc", []string{TypeNumber}, "abc", false},
		{"NaN string", "NaN", []string{TypeNumber}, "NaN", false},
		{"wrap string in array", "/tmp/file", []string{TypeArray}, []any{"/tmp/file"}, true},
		{"wrap number in array", float64(42), []string{TypeArray}, []any{float64(42)}, true},
		{"array unchanged", []any{"a"}, []string{TypeArray}, []any{"a"}, false},
		{"union second type", "42", []string{TypeBoolean, TypeNumber}, float64(42), true},
		{"union already satisfied", "hello", []string{TypeNumber, TypeString}, "hello", false},
		{"valid string", "hello", []string{TypeString}, "hello", false},
		{"valid number", float64(7), []string{TypeNumber}, float64(7), false},
		{"whole number is an integer", float64(7), []string{TypeInteger}, float64(7), false},
		{"bool to string", true, []string{TypeString}, "true", true},
		{"number to string", 2.5, []string{TypeString}, "2.5", true},
		{"object to string", map[string]any{"a": float64(1)}, []string{TypeString}, `{"a":1}`, true},
		{"null stays null", nil, []string{TypeString}, nil, false},
		{"null satisfies null", nil, []string{TypeString, TypeNull}, nil, false},
		{"no types", "x", nil, "x", false},
		{"unknown type", "x", []string{"widget"}, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, repaired := Coerce(tt.value, tt.types...)
			assert.Equal(t, tt.repaired, repaired)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	t.Parallel()
	inputs := []struct {
		value any
		typ   string
	}{
		{"true", TypeBoolean},
		{"1.7", TypeInteger},
		{"3.5", TypeNumber},
		{"x", TypeArray},
		{false, TypeString},
	}
	for _, in := range inputs {
		once, repaired := Coerce(in.value, in.typ)
		assert.True(t, repaired, "%v", in.value)
		twice, repaired := Coerce(once, in.typ)
		assert.False(t, repaired, "%v", in.value)
		assert.Equal(t, once, twice)
	}
}

func TestJSONType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value any
		want  string
	}{
		{nil, TypeNull},
		{"s", TypeString},
		{true, TypeBoolean},
		{float64(1), TypeNumber},
		{int64(1), TypeNumber},
		{json.Number("12"), TypeNumber},
		{[]any{}, TypeArray},
		{[]string{"a"}, TypeArray},
		{map[string]any{}, TypeObject},
		{map[string]int{}, TypeObject},
		{newObject(), TypeObject},
		{struct{}{}, TypeObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, jsonType(tt.value), "%#v", tt.value)
	}
}
