// Package testutil provides test fixtures for toolfix (tool definitions, catalogs, ID generators).
package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/skosovsky/toolfix"
)

// Raw JSON Schemas of the fixture tools.
var (
	ReadFileParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {"type": "string"},
			"offset": {"type": "integer"},
			"limit": {"type": "integer"}
		},
		"required": ["file_path"]
	}`)
	WriteFileParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {"type": "string"},
			"content": {"type": "string"},
			"overwrite": {"type": "boolean"}
		},
		"required": ["file_path", "content"]
	}`)
	RunCommandParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {"type": "string"},
			"args": {"type": "array", "items": {"type": "string"}},
			"timeoutMs": {"type": ["integer", "null"]}
		},
		"required": ["command"]
	}`)
)

// Definitions returns the fixture tools: read_file, write_file and run_command.
func Definitions() []toolfix.Definition {
	return []toolfix.Definition{
		{Name: "read_file", Description: "Read a file from disk", Parameters: ReadFileParams},
		{Name: "write_file", Description: "Write a file to disk", Parameters: WriteFileParams},
		{Name: "run_command", Description: "Run a shell command", Parameters: RunCommandParams},
	}
}

// SequentialIDs returns an IDGenerator producing prefix1, prefix2, ... Safe for concurrent use.
func SequentialIDs(prefix string) toolfix.IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, n.Add(1))
	}
}
