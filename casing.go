package toolfix

import (
	"regexp"
	"slices"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
	underscoreLower = regexp.MustCompile(`_([a-z])`)
)

// ToSnake converts camelCase or PascalCase to snake_case. A run of capitals followed by a
// capitalized word stays one word: "parseHTTPResponse" becomes "parse_http_response".
func ToSnake(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// ToCamel converts snake_case to camelCase. Underscores not followed by a lowercase letter are kept.
func ToCamel(s string) string {
	return underscoreLower.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// NormalizeKey maps an argument key onto one of known. It tries, in order: an exact match,
// the snake_case and camelCase forms of key, a case-insensitive match, and finally the
// snake_case/camelCase forms of each known key compared exactly and case-insensitively.
func NormalizeKey(key string, known []string) (string, bool) {
	if slices.Contains(known, key) {
		return key, true
	}
	if snake := ToSnake(key); slices.Contains(known, snake) {
		return snake, true
	}
	if camel := ToCamel(key); slices.Contains(known, camel) {
		return camel, true
	}
	lower := strings.ToLower(key)
	for _, k := range known {
		if strings.ToLower(k) == lower {
			return k, true
		}
	}
	for _, k := range known {
		snake, camel := ToSnake(k), ToCamel(k)
		if snake == key || camel == key ||
			strings.ToLower(snake) == lower || strings.ToLower(camel) == lower {
			return k, true
		}
	}
	return "", false
}
