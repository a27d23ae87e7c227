package toolfix

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Definition describes a tool as it is advertised to the model.
type Definition struct {
	Name        string
	Description string
	// Parameters is the JSON Schema of the arguments object. Empty means any object.
	Parameters json.RawMessage
}

type catalogEntry struct {
	def       Definition
	schema    Schema
	validator schemaValidator
}

// Catalog maps tool names to definitions, so calls can be repaired and validated by name alone.
// Safe for concurrent use: registration may run alongside Repair and Validate.
type Catalog struct {
	mu       sync.RWMutex
	names    []string
	entries  map[string]*catalogEntry
	repairer *Repairer
}

// NewCatalog creates an empty Catalog. Options configure the Repairer used by Catalog.Repair.
func NewCatalog(opts ...Option) *Catalog {
	return &Catalog{
		entries:  make(map[string]*catalogEntry),
		repairer: NewRepairer(opts...),
	}
}

var emptyObjectSchema = json.RawMessage(`{"type":"object"}`)

// Register compiles def.Parameters and adds the tool. A tool with the same name is replaced in
// place. Errors wrap ErrInvalidSchema.
func (c *Catalog) Register(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return invalidSchema("tool name is empty")
	}
	if len(def.Parameters) == 0 {
		def.Parameters = emptyObjectSchema
	}
	schema, err := ParseSchema(def.Parameters)
	if err != nil {
		return fmt.Errorf("tool %q: %w", def.Name, err)
	}
	validator, err := compileSchema(def.Name, def.Parameters)
	if err != nil {
		return fmt.Errorf("tool %q: %w", def.Name, invalidSchema("%v", err))
	}
	c.add(&catalogEntry{def: def, schema: schema, validator: validator})
	return nil
}

// RegisterFor adds a tool whose parameters are inferred from struct type T. Properties keep the
// struct's field order; fields without omitempty are required.
func RegisterFor[T any](c *Catalog, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return invalidSchema("tool name is empty")
	}
	raw, resolved, err := schemaFor[T]()
	if err != nil {
		return fmt.Errorf("tool %q: %w", name, invalidSchema("%v", err))
	}
	schema, err := ParseSchema(raw)
	if err != nil {
		return fmt.Errorf("tool %q: %w", name, err)
	}
	c.add(&catalogEntry{
		def:       Definition{Name: name, Description: description, Parameters: raw},
		schema:    orderByFields(schema, reflect.TypeFor[T]()),
		validator: resolved,
	})
	return nil
}

func (c *Catalog) add(e *catalogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[e.def.Name]; !exists {
		c.names = append(c.names, e.def.Name)
	}
	c.entries[e.def.Name] = e
}

// Names returns the registered tool names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// Get returns the definition registered under name.
func (c *Catalog) Get(name string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

// Schema returns the shallow schema registered under name.
func (c *Catalog) Schema(name string) (Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Schema{}, false
	}
	return e.schema, true
}

// Repair repairs call against the catalog. AvailableTools defaults to the registered names, and
// when call carries no schema the schema of the (possibly fuzzy-matched) tool is used.
func (c *Catalog) Repair(call Call) Repaired {
	c.mu.RLock()
	if len(call.AvailableTools) == 0 {
		call.AvailableTools = slices.Clone(c.names)
	}
	if call.Schema.isZero() {
		if e, ok := c.lookup(call.ToolName, call.AvailableTools); ok {
			call.Schema = e.schema
		}
	}
	c.mu.RUnlock()
	return c.repairer.Repair(call)
}

// lookup finds the entry for name the way Repairer resolves tool names. Caller holds c.mu.
func (c *Catalog) lookup(name string, available []string) (*catalogEntry, bool) {
	if e, ok := c.entries[name]; ok && slices.Contains(available, name) {
		return e, true
	}
	match, ok := resolveToolName(name, available, c.repairer.opts.maxNameDistance)
	if !ok {
		return nil, false
	}
	e, ok := c.entries[match]
	return e, ok
}

// Validate checks a repaired call against its tool's schema. It returns ErrToolNotFound for
// unknown tools, a *ClientError wrapping ErrDiscardedArguments when repair had to discard the
// payload of a tool with required parameters, and a *ClientError wrapping ErrValidation when the
// arguments still violate the schema.
func (c *Catalog) Validate(res Repaired) error {
	c.mu.RLock()
	e, ok := c.entries[res.ToolName]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrToolNotFound, res.ToolName)
	}
	if len(e.schema.Required) > 0 {
		for _, r := range res.Repairs {
			if strings.HasPrefix(r, "WARNING") {
				return &ClientError{Reason: r, Err: ErrDiscardedArguments}
			}
		}
	}
	return validateAgainstSchema(e.validator, res.Arguments)
}
