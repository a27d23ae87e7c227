package toolfix

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// object is an argument object that keeps its keys in source order.
type object = orderedmap.OrderedMap[string, any]

func newObject() *object { return orderedmap.New[string, any]() }

// ParseResult is the outcome of ParseLenient.
type ParseResult struct {
	Value any
	// Repairs lists the textual fixes that were needed to parse the input, in application order.
	// Empty when the input was already valid JSON.
	Repairs []string
}

// textFix is one step of the combined fix pass. It must leave text it cannot improve unchanged.
type textFix struct {
	description string
	apply       func(string) string
}

// textFixes are applied together, in order, before a single re-parse. Missing closers are
// inserted before trailing commas are removed so that a truncated `{"a": 1,` parses.
var textFixes = []textFix{
	{"stripped BOM", stripBOM},
	{"converted single quotes", convertSingleQuotes},
	{"inserted missing opening brace", openBareObject},
	{"quoted unquoted key(s)", quoteBareKeys},
	{"inserted missing closing brace/bracket", closeOpenBrackets},
	{"removed trailing comma(s)", removeTrailingCommas},
}

// ParseLenient decodes a possibly malformed JSON payload. Valid JSON is returned as-is with no
// repairs. Otherwise all text fixes are applied in one pass and the result is parsed once more.
// ok is false when the text is still not JSON; that is an expected outcome, not an error.
func ParseLenient(text string) (ParseResult, bool) {
	v, repairs, ok := parseLenient(text)
	if !ok {
		return ParseResult{}, false
	}
	if obj, isObj := v.(*object); isObj {
		v = objectToMap(obj)
	}
	return ParseResult{Value: v, Repairs: repairs}, true
}

// parseLenient is ParseLenient keeping top-level objects ordered.
func parseLenient(text string) (any, []string, bool) {
	if v, ok := decodeJSON(text); ok {
		return v, nil, true
	}
	var repairs []string
	s := strings.TrimSpace(text)
	for _, fix := range textFixes {
		if out := fix.apply(s); out != s {
			repairs = append(repairs, fix.description)
			s = out
		}
	}
	if len(repairs) == 0 {
		return nil, nil, false
	}
	v, ok := decodeJSON(s)
	if !ok {
		return nil, nil, false
	}
	return v, repairs, true
}

// decodeJSON unmarshals text, returning top-level objects as *object.
func decodeJSON(text string) (any, bool) {
	data := []byte(text)
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	if _, isMap := v.(map[string]any); isMap {
		obj := newObject()
		if err := json.Unmarshal(data, obj); err == nil {
			return obj, true
		}
	}
	return v, true
}

// stripBOM removes a byte order mark, including one preceded by whitespace, and the whitespace
// that follows it.
func stripBOM(s string) string {
	if !strings.HasPrefix(s, "\uFEFF") {
		return s
	}
	return strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
}

// openBareObject wraps brace-less `key: value` text in an object. The closing brace is left to
// closeOpenBrackets.
func openBareObject(s string) string {
	if s == "" || s[0] == '{' || s[0] == '[' || !strings.Contains(s, ":") {
		return s
	}
	return "{" + s
}

// convertSingleQuotes rewrites single-quoted strings as double-quoted ones. Double-quoted strings
// are copied verbatim, so apostrophes inside them survive.
func convertSingleQuotes(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	inDouble, inSingle := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inDouble:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inDouble = false
			}
		case inSingle:
			switch c {
			case '\\':
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				b.WriteByte(c)
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case '"':
				b.WriteString(`\"`)
			case '\'':
				b.WriteByte('"')
				inSingle = false
			default:
				b.WriteByte(c)
			}
		case c == '"':
			inDouble = true
			b.WriteByte(c)
		case c == '\'':
			inSingle = true
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteBareKeys quotes identifier-like tokens that start an object member and are followed by ':'.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	inString, expectKey := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString, expectKey = true, false
			b.WriteByte(c)
		case c == '{' || c == ',':
			expectKey = true
			b.WriteByte(c)
		case isSpace(c):
			b.WriteByte(c)
		case expectKey && isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i = j - 1
			expectKey = false
		default:
			expectKey = false
			b.WriteByte(c)
		}
	}
	return b.String()
}

// removeTrailingCommas drops commas that directly precede '}' or ']' (whitespace allowed between).
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closeOpenBrackets balances '{' and '['. A closer that skips over unclosed inner openers gets the
// inner closers inserted before it; openers still unclosed at the end are closed in LIFO order.
// Best effort: it guarantees balance, not the structure the model intended.
func closeOpenBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var stack []byte
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := lastIndexByte(stack, c); n >= 0 {
				for k := len(stack) - 1; k > n; k-- {
					b.WriteByte(stack[k])
				}
				stack = stack[:n]
			}
		}
		b.WriteByte(c)
	}
	for k := len(stack) - 1; k >= 0; k-- {
		b.WriteByte(stack[k])
	}
	return b.String()
}

func lastIndexByte(stack []byte, c byte) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == c {
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// objectToMap flattens an ordered object into a plain map. Nested values are already plain.
func objectToMap(obj *object) map[string]any {
	out := make(map[string]any, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
