package toolfix

import "slices"

// Property is a single declared argument of a tool schema.
type Property struct {
	Name string
	// Types holds the declared JSON type, or the ordered union of acceptable types.
	// Empty when the property declares no type.
	Types []string
}

// Schema is the shallow view of a tool's JSON Schema used by the repair pipeline:
// property names in declaration order, their declared types and the required subset.
// It is read-only reference data; the pipeline never mutates it.
type Schema struct {
	Properties []Property
	Required   []string
}

// PropertyNames returns the declared property names in declaration order.
func (s Schema) PropertyNames() []string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return names
}

// Property returns the declared property with the given name.
func (s Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// IsRequired reports whether name is listed as required.
func (s Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// Call is a raw, possibly defective tool invocation as extracted from a provider response.
type Call struct {
	ToolName string
	ID       string
	// Arguments is the raw payload: map[string]any, []any, string, []byte, json.RawMessage,
	// any other JSON-like scalar, or nil.
	Arguments any
	Schema    Schema
	// AvailableTools is the ordered catalog of valid tool names. Order breaks fuzzy-match ties.
	AvailableTools []string
	// Provider is free text matched case-insensitively against known provider families
	// (e.g. "MiniMax M2.5", "glm-5"). Empty means unknown.
	Provider string
}

// Repaired is the schema-conformant result of a repair. Arguments is never nil.
type Repaired struct {
	ToolName  string         `json:"tool_name"`
	ID        string         `json:"id"`
	Arguments map[string]any `json:"arguments"`
	Repaired  bool           `json:"repaired"`
	// Repairs lists human-readable descriptions of each change, in application order.
	Repairs []string `json:"repairs"`
}

func (s Schema) isZero() bool {
	return len(s.Properties) == 0 && len(s.Required) == 0
}
