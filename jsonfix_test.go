package toolfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasRepair(repairs []string, substr string) bool {
	for _, r := range repairs {
		if strings.Contains(strings.ToLower(r), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

func TestParseLenient_ValidJSON(t *testing.T) {
	t.Parallel()
	res, ok := ParseLenient(`{"path": "/tmp/file.txt"}`)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"path": "/tmp/file.txt"}, res.Value)
	assert.Empty(t, res.Repairs)
}

func TestParseLenient_Fixes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		want   any
		repair string
	}{
		{"trailing comma before brace", `{"path": "/tmp",}`, map[string]any{"path": "/tmp"}, "trailing"},
		{"trailing comma before bracket", `{"items": [1, 2, 3,]}`, map[string]any{"items": []any{float64(1), float64(2), float64(3)}}, "trailing"},
		{"single quotes", `{'path': '/tmp/file.txt'}`, map[string]any{"path": "/tmp/file.txt"}, "single quote"},
		{"unquoted keys", `{path: "/tmp/file.txt", max_bytes: 10}`, map[string]any{"path": "/tmp/file.txt", "max_bytes": float64(10)}, "unquoted"},
		{"missing closing brace", `{"path": "/tmp"`, map[string]any{"path": "/tmp"}, "brace"},
		{"missing closer after comma", `{"path": "/tmp",`, map[string]any{"path": "/tmp"}, "trailing"},
		{"bracket closed by brace", `{"items": [1, 2, 3}`, map[string]any{"items": []any{float64(1), float64(2), float64(3)}}, "bracket"},
		{"single quotes and trailing comma", `{'path': '/tmp',}`, map[string]any{"path": "/tmp"}, "single quote"},
		{"byte order mark", "\uFEFF{\"path\": \"/tmp\"}", map[string]any{"path": "/tmp"}, "bom"},
		{"top-level array", `[1, 2,]`, []any{float64(1), float64(2)}, "trailing"},
		{"bom after whitespace", " \uFEFF{\"a\": 1}", map[string]any{"a": float64(1)}, "bom"},
		{"bom with surrounding whitespace", "\n\uFEFF {\"a\": 1,} \n", map[string]any{"a": float64(1)}, "trailing"},
		{"missing opening brace", `path: "/tmp"`, map[string]any{"path": "/tmp"}, "opening brace"},
		{"missing braces around pairs", `"path": "/tmp", "max_bytes": 5`, map[string]any{"path": "/tmp", "max_bytes": float64(5)}, "opening brace"},
		{"missing opening brace with single quotes", `'path': '/tmp'}`, map[string]any{"path": "/tmp"}, "opening brace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, ok := ParseLenient(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.Value)
			assert.True(t, hasRepair(res.Repairs, tt.repair), "repairs: %v", res.Repairs)
		})
	}
}

func TestParseLenient_Unparseable(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"not json at all", "this is plain text, not json at all!!", "!@#$%^&*()", ""} {
		_, ok := ParseLenient(input)
		assert.False(t, ok, input)
	}
}

func TestParseLenient_KeepsStringContents(t *testing.T) {
	t.Parallel()
	res, ok := ParseLenient(`{'msg': 'say "hi"', "note": "don't, ok",}`)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"msg": `say "hi"`, "note": "don't, ok"}, res.Value)
}

// Closers are inserted before trailing commas are removed, so a payload truncated right after a
// comma still parses; the log follows that application order.
func TestParseLenient_RepairsInFixedOrder(t *testing.T) {
	t.Parallel()
	res, ok := ParseLenient("\uFEFF{'a': 1, b: [2,}")
	require.True(t, ok)
	assert.Equal(t, []string{
		"stripped BOM",
		"converted single quotes",
		"quoted unquoted key(s)",
		"inserted missing closing brace/bracket",
		"removed trailing comma(s)",
	}, res.Repairs)
	assert.Equal(t, map[string]any{"a": float64(1), "b": []any{float64(2)}}, res.Value)
}

func TestParseLenient_OpeningBraceRepairs(t *testing.T) {
	t.Parallel()
	res, ok := ParseLenient("  path: \"/tmp\"  ")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"path": "/tmp"}, res.Value)
	assert.Equal(t, []string{
		"inserted missing opening brace",
		"quoted unquoted key(s)",
		"inserted missing closing brace/bracket",
	}, res.Repairs)

	_, ok = ParseLenient("error: something went wrong")
	assert.False(t, ok)
}

func TestParseLenient_TrimsWhitespace(t *testing.T) {
	t.Parallel()
	res, ok := ParseLenient(" \t{'a': 1} \n")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": float64(1)}, res.Value)
	assert.Equal(t, []string{"converted single quotes"}, res.Repairs)
}

func TestParseLenient_KeepsKeyOrder(t *testing.T) {
	t.Parallel()
	v, repairs, ok := parseLenient(`{"z": 1, "a": 2, "m": 3}`)
	require.True(t, ok)
	assert.Empty(t, repairs)
	obj, isObj := v.(*object)
	require.True(t, isObj)
	var keys []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestTextFixes_LeaveValidTextUnchanged(t *testing.T) {
	t.Parallel()
	valid := `{"a": "it's {not} a [problem],", "b": [1, {"c": null}]}`
	for _, fix := range textFixes {
		assert.Equal(t, valid, fix.apply(valid), fix.description)
	}
}
