package toolfix

import (
	"fmt"
	"slices"
	"strings"
)

// ProviderFamily groups model providers that share the same argument-wrapping quirk.
type ProviderFamily struct {
	// Name labels the family in repair descriptions (e.g. "MiniMax").
	Name string
	// Aliases are lower-case substrings matched against the provider string.
	Aliases []string
	// WrapperKeys are the keys under which the family nests the real arguments, in priority order.
	WrapperKeys []string
}

var commonWrapperKeys = []string{
	"args",
	"arguments",
	"parameters",
	"params",
	"input",
	"inputs",
	"data",
	"body",
	"payload",
	"tool_input",
	"function_arguments",
}

var defaultProviderFamilies = []ProviderFamily{
	{Name: "MiniMax", Aliases: []string{"minimax", "mini-max"}, WrapperKeys: commonWrapperKeys},
	{Name: "GLM", Aliases: []string{"glm", "zhipu", "chatglm"}, WrapperKeys: []string{"parameters", "function_arguments", "tool_input", "inputs"}},
	{Name: "Grok", Aliases: []string{"grok", "xai", "x-ai"}, WrapperKeys: commonWrapperKeys},
}

// DefaultProviderFamilies returns a copy of the built-in provider families.
func DefaultProviderFamilies() []ProviderFamily {
	return slices.Clone(defaultProviderFamilies)
}

func (f ProviderFamily) matches(provider string) bool {
	provider = strings.ToLower(provider)
	for _, a := range f.Aliases {
		if a != "" && strings.Contains(provider, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

func matchFamily(families []ProviderFamily, provider string) (ProviderFamily, bool) {
	if strings.TrimSpace(provider) == "" {
		return ProviderFamily{}, false
	}
	for _, f := range families {
		if f.matches(provider) {
			return f, true
		}
	}
	return ProviderFamily{}, false
}

// Unwrap removes provider-specific or generic argument wrapping using the built-in families.
// Values that are not objects, and objects with nothing to unwrap, are returned unchanged with no
// repairs. A wrapped JSON string is decoded with ParseLenient.
func Unwrap(raw any, schema Schema, provider string) (any, []string) {
	obj, ok := asObject(raw)
	if !ok {
		return raw, nil
	}
	out, note, ok := unwrapObject(obj, schema, provider, defaultProviderFamilies)
	if !ok {
		return raw, nil
	}
	return objectToMap(out), []string{note}
}

// unwrapObject applies the family rule when provider matches a family, otherwise the generic rule.
func unwrapObject(obj *object, schema Schema, provider string, families []ProviderFamily) (*object, string, bool) {
	known := schema.PropertyNames()
	if fam, ok := matchFamily(families, provider); ok {
		return fam.unwrap(obj, known)
	}
	return unwrapGeneric(obj, known)
}

// unwrap takes the first wrapper key present in obj that the schema does not declare and whose value
// decodes to an object. Sibling keys missing from the inner object are carried over.
func (f ProviderFamily) unwrap(obj *object, known []string) (*object, string, bool) {
	for _, wk := range f.WrapperKeys {
		v, present := obj.Get(wk)
		if !present || isDeclared(wk, known) {
			continue
		}
		inner, verb, ok := decodeWrapped(v)
		if !ok {
			continue
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == wk {
				continue
			}
			if _, exists := inner.Get(pair.Key); !exists {
				inner.Set(pair.Key, pair.Value)
			}
		}
		return inner, fmt.Sprintf("%s: %s %q wrapper", f.Name, verb, wk), true
	}
	return nil, "", false
}

// unwrapGeneric replaces a single-key object with the object under that key when the key is not a
// declared property. Without declared properties only the common wrapper keys qualify.
func unwrapGeneric(obj *object, known []string) (*object, string, bool) {
	if obj.Len() != 1 {
		return nil, "", false
	}
	pair := obj.Oldest()
	if len(known) == 0 && !slices.Contains(commonWrapperKeys, pair.Key) {
		return nil, "", false
	}
	if isDeclared(pair.Key, known) {
		return nil, "", false
	}
	inner, verb, ok := decodeWrapped(pair.Value)
	if !ok {
		return nil, "", false
	}
	return inner, fmt.Sprintf("generic: %s %q wrapper key", verb, pair.Key), true
}

func isDeclared(key string, known []string) bool {
	_, ok := NormalizeKey(key, known)
	return ok
}

// decodeWrapped returns a fresh object for a wrapped value plus the verb describing how it was
// obtained. Wrapped strings are often double-encoded JSON.
func decodeWrapped(v any) (*object, string, bool) {
	switch x := v.(type) {
	case map[string]any:
		return objectFromMap(x), "unwrapped arguments from", true
	case string:
		parsed, fixes, ok := parseLenient(x)
		if !ok {
			return nil, "", false
		}
		inner, isObj := parsed.(*object)
		if !isObj {
			return nil, "", false
		}
		if len(fixes) == 0 {
			return inner, "decoded JSON string from", true
		}
		return inner, fmt.Sprintf("decoded and fixed malformed JSON string (%s) from", strings.Join(fixes, ", ")), true
	}
	return nil, "", false
}

// asObject views raw as an ordered object. Go maps are ordered by key.
func asObject(raw any) (*object, bool) {
	switch x := raw.(type) {
	case *object:
		return x, true
	case map[string]any:
		return objectFromMap(x), true
	}
	return nil, false
}

func objectFromMap(m map[string]any) *object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	obj := newObject()
	for _, k := range keys {
		obj.Set(k, m[k])
	}
	return obj
}
