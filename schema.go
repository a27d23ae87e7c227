package toolfix

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/tidwall/gjson"
)

// ParseSchema reads the shallow Schema (properties in declaration order, their declared types and
// the required list) from a raw JSON Schema object. Anything else in the document is ignored.
func ParseSchema(raw []byte) (Schema, error) {
	if !gjson.ValidBytes(raw) {
		return Schema{}, invalidSchema("not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Schema{}, invalidSchema("expected a JSON object, got %s", root.Type)
	}
	var s Schema
	var err error
	root.Get("properties").ForEach(func(key, value gjson.Result) bool {
		p := Property{Name: key.String()}
		switch t := value.Get("type"); {
		case t.IsArray():
			for _, item := range t.Array() {
				p.Types = append(p.Types, item.String())
			}
		case t.Type == gjson.String:
			p.Types = []string{t.String()}
		case t.Exists():
			err = invalidSchema("property %q: type must be a string or an array of strings", p.Name)
			return false
		}
		s.Properties = append(s.Properties, p)
		return true
	})
	if err != nil {
		return Schema{}, err
	}
	root.Get("required").ForEach(func(_, value gjson.Result) bool {
		if name := value.String(); name != "" && !slices.Contains(s.Required, name) {
			s.Required = append(s.Required, name)
		}
		return true
	})
	return s, nil
}

// SchemaFromMap reads a Schema from a JSON Schema held as a Go map (e.g. a tool's Parameters()).
// Map keys carry no order, so properties come out sorted by name.
func SchemaFromMap(m map[string]any) (Schema, error) {
	if m == nil {
		return Schema{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Schema{}, invalidSchema("%v", err)
	}
	return ParseSchema(data)
}

var errNilSchema = errors.New("schema reflection returned nil")

// schemaFor infers the JSON Schema of T, returning it as raw JSON plus a resolved validator.
// Struct fields without omitempty are required.
func schemaFor[T any]() ([]byte, *jsonschema.Resolved, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, nil, err
	}
	if schema == nil {
		return nil, nil, errNilSchema
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, nil, err
	}
	stripSchemaIDs(schemaMap)
	if data, err = json.Marshal(schemaMap); err != nil {
		return nil, nil, err
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, nil, err
	}
	return data, resolved, nil
}

// orderByFields reorders s.Properties to follow the JSON field order of struct type typ.
// Properties with no matching field keep their relative order at the end.
func orderByFields(s Schema, typ reflect.Type) Schema {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return s
	}
	rank := make(map[string]int, typ.NumField())
	for i := range typ.NumField() {
		name := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		if name == "" {
			name = typ.Field(i).Name
		}
		if name != "-" {
			rank[name] = i
		}
	}
	props := slices.Clone(s.Properties)
	slices.SortStableFunc(props, func(a, b Property) int {
		ra, okA := rank[a.Name]
		rb, okB := rank[b.Name]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	s.Properties = props
	return s
}

// walkSchema recursively visits every map node in the schema tree (including $defs and definitions).
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					walkSchema(m, visit)
				}
			}
		}
	}
}

// stripSchemaIDs removes id and $id so that compiling many tool schemas never collides on resource IDs.
func stripSchemaIDs(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}
