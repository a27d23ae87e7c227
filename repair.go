package toolfix

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
)

// Repairer runs the repair pipeline. It holds no per-call state and is safe for concurrent use.
type Repairer struct {
	opts repairOptions
}

// NewRepairer creates a Repairer with the given options.
func NewRepairer(opts ...Option) *Repairer {
	o := defaultRepairOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Repairer{opts: o}
}

var defaultRepairer = NewRepairer()

// RepairToolCall repairs call with default settings. See Repairer.Repair.
func RepairToolCall(call Call) Repaired {
	return defaultRepairer.Repair(call)
}

// repairLog accumulates repair descriptions in application order.
type repairLog struct {
	entries []string
}

func (l *repairLog) add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Repair converts call into a schema-conformant Repaired. Stages run in a fixed order because each
// assumes the shape produced by the previous one: call ID, tool name, argument shape (array, null,
// provider wrapping, text), key casing, type coercion, required-field relocation.
// Repair never fails: unusable arguments become an empty object flagged with a WARNING entry.
func (r *Repairer) Repair(call Call) Repaired {
	var log repairLog

	id, note := fixCallID(call.ID, r.opts.newID)
	if note != "" {
		log.add("%s", note)
	}

	name := call.ToolName
	if len(call.AvailableTools) > 0 && !slices.Contains(call.AvailableTools, name) {
		if match, ok := resolveToolName(name, call.AvailableTools, r.opts.maxNameDistance); ok {
			log.add("fuzzy-matched tool name %q to %q", name, match)
			name = match
		}
	}

	args := r.resolveArguments(call, &log)
	if len(call.Schema.Properties) > 0 {
		args = normalizeKeys(args, call.Schema.PropertyNames(), &log)
		coerceProperties(args, call.Schema, &log)
	}
	args = relocateRequired(args, call.Schema, &log)

	res := Repaired{
		ToolName:  name,
		ID:        id,
		Arguments: objectToMap(args),
		Repaired:  len(log.entries) > 0,
		Repairs:   log.entries,
	}
	if res.Repairs == nil {
		res.Repairs = []string{}
	}
	if res.Repaired {
		r.logger().Debug("tool call repaired",
			slog.String("tool", res.ToolName),
			slog.String("call_id", res.ID),
			slog.Any("repairs", res.Repairs))
	}
	if r.opts.onRepair != nil {
		r.opts.onRepair(call, res)
	}
	return res
}

func (r *Repairer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return slog.Default()
}

// resolveArguments turns the raw payload into an object: single-element arrays are unwrapped,
// null and empty payloads default to {}, provider wrapping is removed and text is parsed leniently.
func (r *Repairer) resolveArguments(call Call, log *repairLog) *object {
	raw := call.Arguments
	switch v := raw.(type) {
	case json.RawMessage:
		raw = string(v)
	case []byte:
		raw = string(v)
	}

	if elem, ok := singleElement(raw); ok {
		log.add("unwrapped single-element array argument")
		raw = elem
	}

	if isNil(raw) {
		log.add("defaulted null arguments to {}")
		return newObject()
	}

	if s, ok := raw.(string); ok {
		switch trimmed := strings.TrimSpace(s); trimmed {
		case "", "null", "undefined":
			log.add("normalized arguments string %q to {}", trimmed)
			return newObject()
		}
		parsed, fixes, ok := parseLenient(s)
		if !ok {
			log.add("WARNING: could not parse arguments as JSON (%s); discarded payload and defaulted to {}", preview(s))
			return newObject()
		}
		for _, f := range fixes {
			log.add("JSON fix-up: %s", f)
		}
		raw = parsed
	}

	for range 3 {
		if obj, ok := r.toObject(raw); ok {
			if out, note, ok := unwrapObject(obj, call.Schema, call.Provider, r.opts.families); ok {
				log.add("%s", note)
				return out
			}
			return obj
		}
		next, note, ok := peel(raw)
		if !ok {
			break
		}
		log.add("%s", note)
		raw = next
	}
	log.add("WARNING: arguments were %s, not an object; discarded payload and defaulted to {}", jsonType(raw))
	return newObject()
}

// toObject views raw as an ordered object. Go maps with non-any values and structs are converted
// through their JSON encoding; that change of representation is not a repair.
func (r *Repairer) toObject(raw any) (*object, bool) {
	if obj, ok := asObject(raw); ok {
		return obj, true
	}
	if jsonType(raw) != TypeObject {
		return nil, false
	}
	data, err := json.Marshal(raw)
	if err != nil {
		r.logger().Debug("arguments are not JSON-encodable", slog.Any("error", err))
		return nil, false
	}
	v, ok := decodeJSON(string(data))
	if !ok {
		return nil, false
	}
	obj, ok := v.(*object)
	return obj, ok
}

// peel removes one layer of non-object wrapping found after parsing: a single-element array or a
// double-encoded JSON string.
func peel(raw any) (any, string, bool) {
	if elem, ok := singleElement(raw); ok {
		return elem, "unwrapped single-element array argument", true
	}
	s, ok := raw.(string)
	if !ok {
		return nil, "", false
	}
	parsed, fixes, ok := parseLenient(s)
	if !ok {
		return nil, "", false
	}
	if len(fixes) > 0 {
		return parsed, fmt.Sprintf("decoded double-encoded JSON string (%s)", strings.Join(fixes, ", ")), true
	}
	return parsed, "decoded double-encoded JSON string", true
}

// singleElement returns the only element of a one-element slice. Byte slices are text, not arrays.
func singleElement(raw any) (any, bool) {
	if arr, ok := raw.([]any); ok {
		if len(arr) == 1 {
			return arr[0], true
		}
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice || rv.Len() != 1 || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	return rv.Index(0).Interface(), true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// normalizeKeys renames argument keys onto declared property names. When two keys land on the same
// property the later one wins.
func normalizeKeys(args *object, known []string, log *repairLog) *object {
	out := newObject()
	for pair := args.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if canonical, ok := NormalizeKey(key, known); ok && canonical != key {
			log.add("normalized parameter name %q to %q", key, canonical)
			key = canonical
		}
		out.Set(key, pair.Value)
	}
	return out
}

// coerceProperties applies Coerce to every present property that declares a type.
func coerceProperties(args *object, schema Schema, log *repairLog) {
	for _, p := range schema.Properties {
		if len(p.Types) == 0 {
			continue
		}
		v, present := args.Get(p.Name)
		if !present {
			continue
		}
		out, repaired := Coerce(v, p.Types...)
		if !repaired {
			continue
		}
		log.add("coerced %q from %s to %s (value: %s)", p.Name, jsonType(v), strings.Join(p.Types, "|"), renderValue(out))
		args.Set(p.Name, out)
	}
}

// relocateRequired moves a stray key into a missing required field when the key normalizes to that
// field's name. Missing values are never fabricated.
func relocateRequired(args *object, schema Schema, log *repairLog) *object {
	for _, req := range schema.Required {
		if _, present := args.Get(req); present {
			continue
		}
		for pair := args.Oldest(); pair != nil; pair = pair.Next() {
			if _, declared := schema.Property(pair.Key); declared || schema.IsRequired(pair.Key) {
				continue
			}
			if m, ok := NormalizeKey(pair.Key, []string{req}); ok && m == req {
				log.add("relocated %q to required field %q", pair.Key, req)
				args = renameKey(args, pair.Key, req)
				break
			}
		}
	}
	return args
}

// renameKey returns a copy of obj with from renamed to to, keeping its position.
func renameKey(obj *object, from, to string) *object {
	out := newObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == from {
			out.Set(to, pair.Value)
			continue
		}
		out.Set(pair.Key, pair.Value)
	}
	return out
}

func renderValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// preview quotes at most 80 runes of s for repair descriptions.
func preview(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 80 {
		s = string(r[:80]) + "…"
	}
	return fmt.Sprintf("%q", s)
}
