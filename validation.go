package toolfix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaValidator validates a JSON-like value (e.g. map[string]any from json.Unmarshal).
// *jsonschema.Resolved from google/jsonschema-go and compiledSchema implement it.
type schemaValidator interface {
	Validate(v any) error
}

// compiledSchema wraps a raw JSON Schema compiled by santhosh-tekuri/jsonschema.
type compiledSchema struct {
	schema *jsonschema.Schema
}

// compileSchema compiles raw under a per-tool resource URL. A fresh compiler is used for each tool,
// so tool schemas never collide on $id.
func compileSchema(name string, raw []byte) (*compiledSchema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	loc := "mem://tool/" + url.PathEscape(name)
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return nil, err
	}
	return &compiledSchema{schema: sch}, nil
}

// Validate re-reads v through the compiler's own JSON decoder, which keeps number precision.
func (s *compiledSchema) Validate(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return err
	}
	return s.schema.Validate(inst)
}

// validateAgainstSchema validates repaired arguments. Arguments are normalized through a JSON round
// trip first so that Go-typed values (ints, structs) validate the way the model's JSON would.
func validateAgainstSchema(validate schemaValidator, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return &SystemError{Err: err}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &SystemError{Err: err}
	}
	if err := validate.Validate(v); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}
